package pathfs

import "os"

// OSFS implements FS against the real operating system filesystem.
type OSFS struct{}

func (OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFS) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OSFS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (OSFS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return result, nil
}

// Chdir is the "change-working-directory hook used only when invoking the
// language's interpreter" from spec.md §6.
func Chdir(dir string) (restore func(), err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return func() {}, err
	}
	if err := os.Chdir(dir); err != nil {
		return func() {}, err
	}
	return func() { _ = os.Chdir(cwd) }, nil
}
