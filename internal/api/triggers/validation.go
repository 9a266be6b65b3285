package triggers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/logstackhq/logstack/internal/models"
)

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	return nil
}

func validateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message is required")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(email, "@") {
		return errors.New("email is not a valid address")
	}
	return nil
}

// validateFilter checks enum criteria and converts the request filter
// into the model shape. Absent criteria are allowed; a trigger with an
// empty filter matches every log.
func validateFilter(f FilterRequest) (models.TriggerFilter, error) {
	filter := models.TriggerFilter{
		Title:   f.Title,
		AppName: f.AppName,
		Host:    f.Host,
		IP:      f.IP,
		Content: f.Content,
	}

	if f.Environment != "" {
		env, ok := models.ParseLogEnvironment(f.Environment)
		if !ok {
			return models.TriggerFilter{}, fmt.Errorf("unrecognized environment %q", f.Environment)
		}
		filter.Environment = env
	}
	if f.Level != "" {
		level, ok := models.ParseLogLevel(f.Level)
		if !ok {
			return models.TriggerFilter{}, fmt.Errorf("unrecognized level %q", f.Level)
		}
		filter.Level = level
	}

	return filter, nil
}
