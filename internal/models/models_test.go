package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassifyPostID(t *testing.T) {
	tests := []struct {
		id   string
		want Source
	}{
		{"default-1", SourceSeed},
		{"default-", SourceSeed},
		{"65f1c2a9e4b0", SourceRemote},
		{"my-default-1", SourceRemote},
		{"", SourceRemote},
	}
	for _, tt := range tests {
		if got := ClassifyPostID(tt.id); got.Source != tt.want || got.ID != tt.id {
			t.Errorf("ClassifyPostID(%q) = %+v, want source %v", tt.id, got, tt.want)
		}
	}
}

func TestParseCommentRef(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	id := SeedCommentID("default-2", at)
	if id != "default-2-comment-1700000000123" {
		t.Fatalf("SeedCommentID = %q", id)
	}

	ref := ParseCommentRef(id)
	if ref.Source != SourceSeed || ref.PostID != "default-2" {
		t.Fatalf("seed ref: %+v", ref)
	}

	for _, raw := range []string{"65f1c2a9e4b0", "abc-comment-1", "-comment-5"} {
		if ref := ParseCommentRef(raw); ref.Source != SourceRemote || ref.PostID != "" {
			t.Errorf("ParseCommentRef(%q) = %+v, want remote", raw, ref)
		}
	}
}

func TestSourceJSON(t *testing.T) {
	data, err := json.Marshal(Post{ID: "default-1", Source: SourceSeed})
	if err != nil {
		t.Fatal(err)
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Source != SourceSeed {
		t.Fatalf("source lost in JSON: %s", data)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	var err error = &APIError{Message: "backend unreachable", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("APIError should unwrap to its cause")
	}
	if (&APIError{Status: 503}).Error() != "HTTP 503" {
		t.Error("empty APIError message")
	}

	wrapped := fmt.Errorf("create post: %w", Invalid("title", "required"))
	if !IsValidation(wrapped) {
		t.Error("wrapped ValidationError not detected")
	}
	if IsValidation(ErrNotFound) {
		t.Error("ErrNotFound is not a validation error")
	}
	if Invalid("", "title and content are required").Error() != "title and content are required" {
		t.Error("field-less validation message")
	}
}
