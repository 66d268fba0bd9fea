package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential comes from. File wins over Value so
// tokens can live outside the config file.
type Source struct {
	// Name appears in error messages.
	Name string
	// Value is an inline credential from configuration.
	Value string
	// File points at a file holding the credential.
	File string
}

// Load resolves and trims the credential described by src. An error is
// returned when neither the file nor the inline value yields anything usable.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
