package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rsharma2005/civicbridge/internal/common"
	"github.com/rsharma2005/civicbridge/internal/models"
)

const deadlineLayout = "2006-01-02"

// ListProjects prints all projects in insertion order.
func (a *App) ListProjects(ctx context.Context) error {
	projects, err := a.store.Projects(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(projects) == 0 {
		printlnFn("No projects yet")
		return nil
	}
	for _, p := range projects {
		printlnFn(fmt.Sprintf("%s  [%s]  %s (deadline %s)",
			p.ID, p.Status, p.Title, p.Deadline.Format(deadlineLayout)))
	}
	return nil
}

// ShowProject prints a single project in full.
func (a *App) ShowProject(ctx context.Context, id string) error {
	p, err := a.store.ProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No project with id", id)
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	printlnFn(fmt.Sprintf("%s\n  status:      %s\n  location:    %s\n  deadline:    %s\n  departments: %s\n  created by:  %s at %s\n  %s",
		p.Title, p.Status, p.Location, p.Deadline.Format(deadlineLayout),
		strings.Join(p.Departments, ", "), p.CreatedBy,
		p.CreatedAt.Format(time.RFC3339), p.Description))
	return nil
}

// NewProject interactively collects a project draft and creates it.
// The store rejects the call when no session is active.
func (a *App) NewProject(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	description, err := GetSimpleText(a.reader, "Enter description", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	statusText, err := GetSimpleText(a.reader, "Enter status (planning, in-progress, on-hold, completed, delayed)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	status, err := models.ParseProjectStatus(statusText)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	location, err := GetSimpleText(a.reader, "Enter location", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	deadlineText, err := GetSimpleText(a.reader, "Enter deadline (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	deadline, err := time.Parse(deadlineLayout, deadlineText)
	if err != nil {
		printlnFn("Invalid deadline, expected YYYY-MM-DD")
		return err
	}

	departments, err := GetList(a.reader, "Enter departments (comma-separated)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(departments) == 0 {
		printlnFn("At least one department is required")
		return errors.New("no departments")
	}

	project, err := a.store.CreateProject(ctx, models.ProjectDraft{
		Title:       title,
		Description: description,
		Status:      status,
		Location:    location,
		Deadline:    deadline,
		Departments: departments,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotAuthenticated) {
			printlnFn("You must be logged in to create a project")
		} else {
			log.Printf("Project creation unsuccessful: %s", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Created project %s", project.ID))
	return nil
}
