package kv

// MemKV is an in-memory KV used in tests and as a throwaway backend.
type MemKV struct {
	data map[string]string
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MemKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}
