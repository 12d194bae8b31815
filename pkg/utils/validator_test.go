package utils

import (
	"strings"
	"testing"
)

type sampleInput struct {
	Name     string  `json:"name" validate:"required,min=6,max=16"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Price    float64 `json:"price" validate:"gt=0"`
	Password string  `json:"password" validate:"required,min=8,max=24"`
	Confirm  string  `json:"confirm" validate:"eqfield=Password"`
}

func validSample() sampleInput {
	return sampleInput{
		Name:     "johndoe",
		Email:    "john@example.com",
		Price:    10,
		Password: "Sup3rSecret",
		Confirm:  "Sup3rSecret",
	}
}

func TestValidateStructValid(t *testing.T) {
	if messages := ValidateStruct(validSample()); messages != nil {
		t.Fatalf("expected no messages, got %v", messages)
	}
}

func TestValidateStructAggregatesMessages(t *testing.T) {
	input := validSample()
	input.Name = "abc"
	input.Email = "not-an-email"
	input.Price = 0

	messages := ValidateStruct(input)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %v", messages)
	}
}

func TestValidateStructFieldMismatch(t *testing.T) {
	input := validSample()
	input.Confirm = "SomethingElse1"

	messages := ValidateStruct(input)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %v", messages)
	}
	if !strings.Contains(messages[0], "confirm") {
		t.Fatalf("message should name the field: %q", messages[0])
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("  <b>hello</b>  ")
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Fatalf("tags not escaped: %q", got)
	}
	if strings.HasPrefix(got, " ") || strings.HasSuffix(got, " ") {
		t.Fatalf("whitespace not trimmed: %q", got)
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  John@Example.COM "); got != "john@example.com" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword(hash, "Sup3rSecret") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "WrongPass1") {
		t.Fatal("wrong password accepted")
	}
}
