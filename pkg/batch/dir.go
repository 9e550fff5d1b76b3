package batch

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every *.asm/*.txt file in dir into a Task, sorted
// alphabetically by file name (the order os.ReadDir returns).
func LoadDir(dir string) ([]Task, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var tasks []Task
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".asm" && ext != ".txt" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, Task{Name: e.Name(), Source: src})
	}
	return tasks, nil
}
