package service

import (
	"context"
	"strings"
	"testing"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/pkg/dto"
)

type fakeRequestRepo struct {
	created []*model.Request
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *model.Request) error {
	f.created = append(f.created, request)
	return nil
}

func (f *fakeRequestRepo) FindAll(ctx context.Context, offset, limit int) ([]*model.Request, int64, error) {
	return f.created, int64(len(f.created)), nil
}

func TestRequestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   RequestInput
		wantMsg string
	}{
		{"empty type", RequestInput{Message: "add my city"}, "Invalid request type"},
		{"unknown type", RequestInput{Type: "complaint", Message: "add my city"}, "Invalid request type"},
		{"empty message", RequestInput{Type: "city"}, "Message must be at least 2 characters"},
		{"whitespace-only message", RequestInput{Type: "city", Message: "   "}, "Message must be at least 2 characters"},
		{"one character", RequestInput{Type: "idea", Message: "x"}, "Message must be at least 2 characters"},
		{"message too long", RequestInput{Type: "name", Message: strings.Repeat("a", 501)}, "Message too long (max 500 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRequestRepo{}
			svc := NewRequestService(repo)

			err := svc.Submit(context.Background(), tt.input)
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("error = %v, want %q", err, tt.wantMsg)
			}
			if len(repo.created) != 0 {
				t.Error("nothing should be stored when validation fails")
			}
		})
	}
}

func TestRequestSubmit_Accepted(t *testing.T) {
	repo := &fakeRequestRepo{}
	svc := NewRequestService(repo)

	for _, reqType := range []string{"city", "name", "idea"} {
		if err := svc.Submit(context.Background(), RequestInput{Type: reqType, Message: "please add Haifa"}); err != nil {
			t.Errorf("Submit(%q) error: %v", reqType, err)
		}
	}
	if len(repo.created) != 3 {
		t.Fatalf("stored %d requests, want 3", len(repo.created))
	}

	// Exactly 500 characters is still within bounds.
	if err := svc.Submit(context.Background(), RequestInput{Type: "idea", Message: strings.Repeat("a", 500)}); err != nil {
		t.Errorf("Submit at max length error: %v", err)
	}
}

func TestRequestList_Pagination(t *testing.T) {
	repo := &fakeRequestRepo{}
	svc := NewRequestService(repo)

	for i := 0; i < 3; i++ {
		if err := svc.Submit(context.Background(), RequestInput{Type: "city", Message: "add my city"}); err != nil {
			t.Fatalf("Submit error: %v", err)
		}
	}

	result, err := svc.List(context.Background(), dto.RequestFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if result.Meta.CurrentPage != 1 || result.Meta.Limit != 20 {
		t.Errorf("meta = %+v, want page 1 limit 20 defaults", result.Meta)
	}
	if result.Meta.TotalItems != 3 || result.Meta.TotalPages != 1 {
		t.Errorf("meta = %+v, want 3 items over 1 page", result.Meta)
	}
	if len(result.Data) != 3 {
		t.Errorf("data length = %d, want 3", len(result.Data))
	}
}

func TestRequestSubmit_SanitizesMarkup(t *testing.T) {
	repo := &fakeRequestRepo{}
	svc := NewRequestService(repo)

	err := svc.Submit(context.Background(), RequestInput{
		Type:    "idea",
		Message: `hello <script>alert("x")</script> world`,
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	stored := repo.created[0].Message
	if strings.Contains(stored, "<script>") {
		t.Errorf("stored message still contains markup: %q", stored)
	}
	if !strings.Contains(stored, "hello") || !strings.Contains(stored, "world") {
		t.Errorf("stored message lost its text: %q", stored)
	}
}
