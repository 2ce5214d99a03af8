package providers

import (
	"path/filepath"
	"strings"

	"github.com/gookit/validate"
	"gtmd/internal/structures"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func init() {
	validate.AddValidator("relativeDir", isRelativeDir)
	validate.AddGlobalMessages(map[string]string{
		"relativeDir": "{field} must be a directory below the project root",
	})
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

// Validate checks the validate tags of the whole config tree.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if v.Validate() {
		return nil
	}
	return v.Errors
}

// isRelativeDir accepts paths that stay strictly inside the directory they
// are joined to.
func isRelativeDir(val any) bool {
	s, ok := val.(string)
	if !ok || s == "" {
		return false
	}
	clean := filepath.Clean(s)
	if filepath.IsAbs(clean) || clean == "." || clean == ".." {
		return false
	}
	return !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
