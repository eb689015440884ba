package pkg

import "os"

// CheckFileExist reports whether the file exists.
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadFileText reads a whole file as a string, bytes untouched.
func ReadFileText(filePath string) (string, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFileText writes text to filePath with no newline translation.
func WriteFileText(filePath, text string) error {
	return os.WriteFile(filePath, []byte(text), 0o644)
}
