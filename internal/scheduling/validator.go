package scheduling

import (
	"strings"
	"time"

	"github.com/Domenick1991/resourcebooking/internal/domain"
)

// Request is a reservation request as received from a caller; times are
// RFC 3339 strings and are parsed here.
type Request struct {
	Resource    string `json:"resource"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	RequestedBy string `json:"requestedBy"`
}

type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Err converts a failed result into a *domain.ValidationError.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &domain.ValidationError{Errors: r.Errors}
}

type Validator struct {
	clock     domain.Clock
	resources map[string]struct{}
}

// NewValidator builds a validator. When resources is empty any non-blank
// resource name is accepted.
func NewValidator(clock domain.Clock, resources ...string) *Validator {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	catalog := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		catalog[r] = struct{}{}
	}
	return &Validator{clock: clock, resources: catalog}
}

// Validate checks every rule and collects all violations.
func (v *Validator) Validate(req Request) ValidationResult {
	var errs []string

	resource := strings.TrimSpace(req.Resource)
	if resource == "" {
		errs = append(errs, "Resource is required")
	} else if !v.KnownResource(resource) {
		errs = append(errs, "Unknown resource: "+resource)
	}

	if strings.TrimSpace(req.RequestedBy) == "" {
		errs = append(errs, "Requested by is required")
	}

	start, startErr := ParseTime(req.StartTime)
	if startErr != nil {
		errs = append(errs, "Invalid start time")
	}
	end, endErr := ParseTime(req.EndTime)
	if endErr != nil {
		errs = append(errs, "Invalid end time")
	}

	if startErr == nil && endErr == nil {
		if !start.Before(end) {
			errs = append(errs, "End time must be after start time")
		}
		duration := end.Sub(start)
		if duration < MinDurationMinutes*time.Minute {
			errs = append(errs, "Booking duration must be at least 15 minutes")
		}
		if duration > MaxDurationMinutes*time.Minute {
			errs = append(errs, "Booking duration cannot exceed 2 hours")
		}
	}

	if startErr == nil && start.Before(v.clock.Now()) {
		errs = append(errs, "Cannot book time slots in the past")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// KnownResource reports whether name belongs to the catalog.
func (v *Validator) KnownResource(name string) bool {
	if len(v.resources) == 0 {
		return true
	}
	_, ok := v.resources[name]
	return ok
}

// ParseTime parses an absolute instant in RFC 3339 form.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}
