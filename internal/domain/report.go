package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ReportRequest is the inbound body of a report generation call.
type ReportRequest struct {
	ReportData  *ReportPayload `json:"reportData"`
	MobileNo    FlexString     `json:"mobileNo,omitempty"`
	StudentID   FlexString     `json:"studentID,omitempty"`
	StudentName string         `json:"studentName,omitempty"`
}

// ResolvedStudentID prefers the top-level id and falls back to the one
// embedded in the report data.
func (r *ReportRequest) ResolvedStudentID() string {
	if id := strings.TrimSpace(string(r.StudentID)); id != "" {
		return id
	}
	if r.ReportData != nil {
		return strings.TrimSpace(string(r.ReportData.StudentID))
	}
	return ""
}

// ReportPayload is the assessment data a report is rendered from.
type ReportPayload struct {
	StudentName      string      `json:"studentName,omitempty"`
	StudentID        FlexString  `json:"studentID,omitempty"`
	SchoolName       string      `json:"schoolName,omitempty"`
	Grade            FlexString  `json:"grade,omitempty"`
	Board            string      `json:"board,omitempty"`
	SummaryParagraph string      `json:"summaryParagraph,omitempty"`
	VibeScores       TraitScores `json:"vibeScores,omitempty"`
	TopBuckets       []Bucket    `json:"top5Buckets,omitempty"`
}

// UnmarshalJSON accepts buckets under either top5Buckets or top5_buckets.
func (p *ReportPayload) UnmarshalJSON(b []byte) error {
	type alias ReportPayload
	aux := struct {
		*alias
		SnakeBuckets []Bucket `json:"top5_buckets"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if p.TopBuckets == nil && aux.SnakeBuckets != nil {
		p.TopBuckets = aux.SnakeBuckets
	}
	return nil
}

// Clone returns a deep copy so enrichment never touches the caller's data.
func (p *ReportPayload) Clone() *ReportPayload {
	if p == nil {
		return nil
	}
	out := *p
	out.VibeScores = append(TraitScores(nil), p.VibeScores...)
	if p.TopBuckets != nil {
		out.TopBuckets = make([]Bucket, len(p.TopBuckets))
		for i, b := range p.TopBuckets {
			out.TopBuckets[i] = b.clone()
		}
	}
	return &out
}

// Bucket is a ranked thematic group of careers.
type Bucket struct {
	BucketName string   `json:"bucketName"`
	TopCareers []Career `json:"topCareers,omitempty"`
}

func (b Bucket) clone() Bucket {
	out := b
	if b.TopCareers != nil {
		out.TopCareers = make([]Career, len(b.TopCareers))
		for i, c := range b.TopCareers {
			c.StudyPath = cloneStrings(c.StudyPath)
			c.RecommendedSkills = cloneStrings(c.RecommendedSkills)
			c.RecommendedCourses = cloneStrings(c.RecommendedCourses)
			out.TopCareers[i] = c
		}
	}
	return out
}

// Career is one recommended career inside a bucket. RecommendedSkills and
// RecommendedCourses are nil until enrichment attaches them.
type Career struct {
	CareerName         string   `json:"careerName"`
	StudyPath          []string `json:"studyPath,omitempty"`
	RecommendedSkills  []string `json:"recommendedSkills,omitempty"`
	RecommendedCourses []string `json:"recommendedCourses,omitempty"`
}

// CatalogCareer is one entry of the career catalog dataset.
type CatalogCareer struct {
	CareerName         string   `json:"careerName"`
	WhyFit             string   `json:"whyFit"`
	RecommendedSkills  []string `json:"recommendedSkills"`
	RecommendedCourses []string `json:"recommendedCourses"`
}

// TraitScore is one trait code with its 0-100 score.
type TraitScore struct {
	Code  string
	Score float64
}

// TraitScores keeps the scores in the order they appeared in the payload.
type TraitScores []TraitScore

// UnmarshalJSON decodes a JSON object preserving key order.
func (t *TraitScores) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*t = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("trait scores: expected object, got %v", tok)
	}
	out := TraitScores{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var score float64
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("trait scores: %s: %w", key, err)
		}
		out = append(out, TraitScore{Code: key, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

// MarshalJSON writes the scores back as an object in their original order.
func (t TraitScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Code)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Score)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the score for code.
func (t TraitScores) Get(code string) (float64, bool) {
	for _, s := range t {
		if s.Code == code {
			return s.Score, true
		}
	}
	return 0, false
}

// Highest returns the code with the greatest score. Ties go to the code
// that appeared first.
func (t TraitScores) Highest() (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	best := t[0]
	for _, s := range t[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Code, true
}

// FlexString decodes from either a JSON string or a JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
