package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest_Valid(t *testing.T) {
	bodies := []string{
		`{"reportData": {}}`,
		`{"studentID": 42, "reportData": {"grade": 10, "vibeScores": {"R": 72, "I": 56.5}}}`,
		`{"studentID": "42", "studentName": "Asha", "reportData": {"top5_buckets": [{"bucketName": "Design", "topCareers": [{"careerName": "UX", "studyPath": ["B.Des"]}]}]}}`,
	}
	for _, b := range bodies {
		assert.NoError(t, ValidateRequest([]byte(b)), b)
	}
}

func TestValidateRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing reportData", body: `{"studentID": "1"}`, want: "reportData"},
		{name: "score out of range", body: `{"reportData": {"vibeScores": {"R": 140}}}`, want: "R"},
		{name: "too many buckets", body: `{"reportData": {"top5Buckets": [{"bucketName":"a"},{"bucketName":"b"},{"bucketName":"c"},{"bucketName":"d"},{"bucketName":"e"},{"bucketName":"f"}]}}`, want: "top5Buckets"},
		{name: "career without name", body: `{"reportData": {"top5Buckets": [{"bucketName": "a", "topCareers": [{"studyPath": []}]}]}}`, want: "careerName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest([]byte(tt.body))
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateRequest_MalformedJSON(t *testing.T) {
	err := ValidateRequest([]byte(`{"reportData":`))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}
