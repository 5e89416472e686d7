package paginator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultMaxPageLength = 500
	DefaultOrphanLength  = 30
	DefaultWidowLength   = 30
)

// ErrInvalidConfiguration is returned when a Config holds a non-positive length.
var ErrInvalidConfiguration = errors.New("invalid pagination configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the pagination thresholds. All lengths count Unicode code points.
type Config struct {
	// MaxPageLength is the longest a page may grow before it is closed at the next whitespace.
	MaxPageLength int `json:"max_page_length" validate:"gt=0"`
	// OrphanLength is the length below which a page's last line is moved to the next page.
	OrphanLength int `json:"orphan_length" validate:"gt=0"`
	// WidowLength is the length below which a page's first line is pulled back onto the previous page.
	WidowLength int `json:"widow_length" validate:"gt=0"`
}

// DefaultConfig returns the 500/30/30 configuration.
func DefaultConfig() Config {
	return Config{
		MaxPageLength: DefaultMaxPageLength,
		OrphanLength:  DefaultOrphanLength,
		WidowLength:   DefaultWidowLength,
	}
}

// Validate rejects configurations that would produce degenerate pages.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfiguration, verrs[0].Field(), verrs[0].Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}
