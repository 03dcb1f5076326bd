package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRequest_DecodesSnakeCaseBucketsAndNumericIDs(t *testing.T) {
	body := `{
		"studentID": 42,
		"studentName": "Asha",
		"reportData": {
			"studentName": "Asha",
			"grade": 10,
			"board": "CBSE",
			"vibeScores": {"S": 80, "A": 91, "R": 12},
			"top5_buckets": [{"bucketName": "Design", "topCareers": [{"careerName": "UX Designer", "studyPath": ["B.Des"]}]}]
		}
	}`

	var req ReportRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NotNil(t, req.ReportData)

	assert.Equal(t, "42", req.ResolvedStudentID())
	assert.Equal(t, FlexString("10"), req.ReportData.Grade)
	require.Len(t, req.ReportData.TopBuckets, 1)
	assert.Equal(t, "UX Designer", req.ReportData.TopBuckets[0].TopCareers[0].CareerName)
	assert.Nil(t, req.ReportData.TopBuckets[0].TopCareers[0].RecommendedSkills)

	codes := []string{}
	for _, s := range req.ReportData.VibeScores {
		codes = append(codes, s.Code)
	}
	assert.Equal(t, []string{"S", "A", "R"}, codes)
}

func TestReportRequest_ResolvedStudentIDFallsBackToPayload(t *testing.T) {
	req := ReportRequest{ReportData: &ReportPayload{StudentID: " 777 "}}
	assert.Equal(t, "777", req.ResolvedStudentID())

	assert.Equal(t, "", (&ReportRequest{}).ResolvedStudentID())
}

func TestTraitScores_Highest(t *testing.T) {
	tests := []struct {
		name   string
		scores TraitScores
		want   string
		ok     bool
	}{
		{name: "empty", scores: nil, want: "", ok: false},
		{name: "single", scores: TraitScores{{"I", 10}}, want: "I", ok: true},
		{name: "max wins", scores: TraitScores{{"R", 10}, {"A", 91}, {"S", 76}}, want: "A", ok: true},
		{name: "tie keeps first", scores: TraitScores{{"E", 50}, {"C", 50}}, want: "E", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.scores.Highest()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTraitScores_MarshalKeepsOrder(t *testing.T) {
	b, err := json.Marshal(TraitScores{{"S", 1}, {"A", 2.5}})
	require.NoError(t, err)
	assert.Equal(t, `{"S":1,"A":2.5}`, string(b))
}

func TestTraitScores_RejectsNonObject(t *testing.T) {
	var s TraitScores
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
}

func TestReportPayload_CloneIsDeep(t *testing.T) {
	orig := &ReportPayload{
		TopBuckets: []Bucket{{BucketName: "B", TopCareers: []Career{{CareerName: "C", StudyPath: []string{"x"}}}}},
	}
	cp := orig.Clone()
	cp.TopBuckets[0].TopCareers[0].RecommendedSkills = []string{"s"}
	cp.TopBuckets[0].TopCareers[0].StudyPath[0] = "y"

	assert.Nil(t, orig.TopBuckets[0].TopCareers[0].RecommendedSkills)
	assert.Equal(t, "x", orig.TopBuckets[0].TopCareers[0].StudyPath[0])
}
