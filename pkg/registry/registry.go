// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"diagnostic-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// New returns an empty registry stamped with the current time.
func New() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities:  []Activity{},
	}
}

// Save writes the registry as indented JSON, creating the directory if needed.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends an activity, rejecting duplicate ids and task types.
func (r *ActivityRegistry) Add(activity Activity) error {
	if _, ok := r.Find(activity.ID); ok {
		return fmt.Errorf("activity with ID %s already exists", activity.ID)
	}
	if _, ok := r.FindByTaskType(activity.TaskType); ok {
		return fmt.Errorf("task type %s is already registered", activity.TaskType)
	}
	r.Activities = append(r.Activities, activity)
	r.touch()
	return nil
}

func (r *ActivityRegistry) touch() {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}

// Validate reports every problem in the registry joined into one error.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	var problems []error
	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)

	for _, activity := range r.Activities {
		if activity.ID == "" {
			problems = append(problems, errors.New("activity missing required field: ID"))
			continue
		}
		if ids[activity.ID] {
			problems = append(problems, fmt.Errorf("duplicate activity ID: %s", activity.ID))
		}
		ids[activity.ID] = true

		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			problems = append(problems, fmt.Errorf("activity %s: %w", activity.ID, err))
		}
		if activity.DisplayName == "" {
			problems = append(problems, fmt.Errorf("activity %s missing required field: DisplayName", activity.ID))
		}
		if activity.Category == "" {
			problems = append(problems, fmt.Errorf("activity %s missing required field: Category", activity.ID))
		}
		if activity.TaskType == "" {
			problems = append(problems, fmt.Errorf("activity %s missing required field: TaskType", activity.ID))
		} else if taskTypes[activity.TaskType] {
			problems = append(problems, fmt.Errorf("duplicate task type: %s", activity.TaskType))
		}
		taskTypes[activity.TaskType] = true

		if !knownStatuses[activity.ImplementationStatus] {
			problems = append(problems, fmt.Errorf("activity %s has unknown status %q", activity.ID, activity.ImplementationStatus))
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				problems = append(problems, fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout))
			}
		}
	}

	return errors.Join(problems...)
}

// Update sets a single named field on an activity.
func (r *ActivityRegistry) Update(id, field, value string) error {
	activity, ok := r.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		if !knownStatuses[value] {
			return fmt.Errorf("unknown status: %s", value)
		}
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	r.touch()
	return nil
}
