package rag_service

import (
	"testing"
)

func TestCleanTextWhitespaceCollapse(t *testing.T) {
	got := CleanText("too   many\t\tspaces here.")
	want := "too many spaces here."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCleanTextBlankLineRuns(t *testing.T) {
	got := CleanText("First paragraph.\n\n\n\nSecond paragraph.")
	want := "First paragraph.\n\nSecond paragraph."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCleanTextPageNumberArtifacts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "page label line",
			input: "End of section.\nPage 3\nNext section begins.",
			want:  "End of section.\nNext section begins.",
		},
		{
			name:  "lowercase page label",
			input: "End of section.\npage 12\nNext section begins.",
			want:  "End of section.\nNext section begins.",
		},
		{
			name:  "bare number line",
			input: "End of section.\n42\nNext section begins.",
			want:  "End of section.\nNext section begins.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanTextSoftWrapMerge(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "wrapped line is merged",
			input: "This sentence wraps\nonto the next line.",
			want:  "This sentence wraps onto the next line.",
		},
		{
			name:  "terminal period blocks merge",
			input: "First sentence ends here.\nSecond sentence begins.",
			want:  "First sentence ends here.\nSecond sentence begins.",
		},
		{
			name:  "colon blocks merge",
			input: "Documents required:\nAadhaar card and land records.",
			want:  "Documents required:\nAadhaar card and land records.",
		},
		{
			name:  "closing paren blocks merge",
			input: "Subsidy (50 percent)\nEligibility is open to all farmers.",
			want:  "Subsidy (50 percent)\nEligibility is open to all farmers.",
		},
		{
			name:  "multi-line wrap collapses to one",
			input: "The scheme provides\ndirect income support\nto all farmer families.",
			want:  "The scheme provides direct income support to all farmer families.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"The scheme provides\ndirect income support\nto farmer families.\n\nInstallments are paid\nthree times a year.",
		"Eligibility:\nAll landholding farmers.\n\n\nBenefits include cash transfer.",
		"too   many\t\tspaces here.\nPage 9\nNext part.",
	}

	for _, input := range inputs {
		once := CleanText(input)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("cleaning is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}
