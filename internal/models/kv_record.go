package models

import (
	"fmt"
	"time"
)

// KVRecord is one key-value entry as stored in DynamoDB.
type KVRecord struct {
	Key         string `dynamodbav:"key"`
	Value       []byte `dynamodbav:"value"`
	LastUpdated int64  `dynamodbav:"lastUpdated"`
	TTL         int64  `dynamodbav:"ttl,omitempty"`
}

// Validate checks if a KVRecord's fields are valid
func (r *KVRecord) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("key is required")
	}

	if r.LastUpdated <= 0 {
		return fmt.Errorf("lastUpdated must be set")
	}

	if r.TTL != 0 && r.TTL < r.LastUpdated {
		return fmt.Errorf("ttl %d is before lastUpdated %d", r.TTL, r.LastUpdated)
	}

	return nil
}

// Expired reports whether the record carries a TTL that has passed.
func (r *KVRecord) Expired(now time.Time) bool {
	return r.TTL != 0 && now.Unix() >= r.TTL
}
