package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rsharma2005/civicbridge/internal/common"
	"github.com/rsharma2005/civicbridge/internal/models"
)

// ListResources prints all shared resources in insertion order.
func (a *App) ListResources(ctx context.Context) error {
	resources, err := a.store.Resources(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(resources) == 0 {
		printlnFn("No resources yet")
		return nil
	}
	for _, r := range resources {
		printlnFn(fmt.Sprintf("%s  [%s/%s]  %s — %s", r.ID, r.Department, r.Type, r.Title, r.Author))
	}
	return nil
}

// ShowResource prints a single resource in full.
func (a *App) ShowResource(ctx context.Context, id string) error {
	r, err := a.store.ResourceByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No resource with id", id)
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	out := fmt.Sprintf("%s\n  department: %s\n  type:       %s\n  author:     %s\n  shared at:  %s\n  %s",
		r.Title, r.Department, r.Type, r.Author, r.CreatedAt.Format(time.RFC3339), r.Description)
	if r.FileURL != "" {
		out += "\n  file:       " + r.FileURL
	}
	printlnFn(out)
	return nil
}

// NewResource interactively collects a resource draft, optionally uploading
// a local file as its attachment, and creates it.
func (a *App) NewResource(ctx context.Context) error {
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

	department, err := GetSimpleText(a.reader, "Enter department", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	resourceType, err := GetSimpleText(a.reader, "Enter type (dataset, document, template, ...)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	author, err := GetSimpleText(a.reader, "Enter author", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	filePath, err := GetSimpleText(a.reader, "Enter file to attach (empty for none)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fileURL := ""
	if filePath != "" {
		fileURL, err = a.blobs.Put(ctx, filePath)
		if err != nil {
			log.Printf("Attachment upload unsuccessful: %s", err.Error())
			return err
		}
	}

	resource, err := a.store.CreateResource(ctx, models.ResourceDraft{
		Title:       title,
		Description: description,
		Department:  department,
		Type:        resourceType,
		Author:      author,
		FileURL:     fileURL,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotAuthenticated) {
			printlnFn("You must be logged in to share a resource")
		} else {
			log.Printf("Resource creation unsuccessful: %s", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Created resource %s", resource.ID))
	return nil
}
