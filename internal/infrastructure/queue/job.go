package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"social-publisher/internal/domain/dto"
)

// ErrResultNotFound is returned when no result is stored for a job id.
var ErrResultNotFound = errors.New("job result not found")

func DeserializeJob(data string) (*dto.PublishJob, error) {
	var job dto.PublishJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job: %w", err)
	}
	return &job, nil
}

func SerializeJob(job dto.PublishJob) (string, error) {
	bytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}
	return string(bytes), nil
}

func deserializeResult(data string) (*dto.PublishJobResult, error) {
	var result dto.PublishJobResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to deserialize job result: %w", err)
	}
	return &result, nil
}
