package ocr

import (
	"reflect"
	"testing"
)

func TestParsePrescriptionTabPattern(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []ParsedMedicine
	}{
		{
			name:  "single tab line",
			lines: []string{"TAB Amoxil 1+0+1"},
			expected: []ParsedMedicine{
				{DrugName: "Amoxil", Dosage: "1+0+1"},
			},
		},
		{
			name:  "multiple tab entries across lines",
			lines: []string{"TAB Amoxil 1+0+1", "TAB Panadol Extra 1-1-1"},
			expected: []ParsedMedicine{
				{DrugName: "Amoxil", Dosage: "1+0+1"},
				{DrugName: "Panadol Extra", Dosage: "1-1-1"},
			},
		},
		{
			name:  "lowercase marker",
			lines: []string{"tab amoxil 1+1+1"},
			expected: []ParsedMedicine{
				{DrugName: "amoxil", Dosage: "1+1+1"},
			},
		},
		{
			name:  "name split over whitespace",
			lines: []string{"TAB  Amoxil   Forte  0+1+0"},
			expected: []ParsedMedicine{
				{DrugName: "Amoxil Forte", Dosage: "0+1+0"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrescription(tt.lines)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParsePrescription() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestParsePrescriptionFallback(t *testing.T) {
	// No TAB marker: capitalized tokens longer than two characters win.
	got := ParsePrescription([]string{"take Amoxil and PANADOL daily"})

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.DrugName)
		if p.Dosage != "" {
			t.Errorf("Fallback entries should have no dosage, got %q", p.Dosage)
		}
	}
	want := []string{"Amoxil", "PANADOL"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Fallback names = %v, want %v", names, want)
	}
}

func TestParsePrescriptionEmpty(t *testing.T) {
	if got := ParsePrescription(nil); got != nil {
		t.Errorf("Expected nil for no lines, got %+v", got)
	}
	if got := ParsePrescription([]string{""}); len(got) != 0 {
		t.Errorf("Expected nothing for empty line, got %+v", got)
	}
}

func TestMedicineNames(t *testing.T) {
	names := MedicineNames([]string{"TAB Amoxil 1+0+1", "TAB Moxatag 1+1+1"})
	want := []string{"Amoxil", "Moxatag"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("MedicineNames() = %v, want %v", names, want)
	}
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"data url", "data:image/png;base64,aGVsbG8=", "hello", false},
		{"bare base64", "aGVsbG8=", "hello", false},
		{"missing comma", "data:image/png;base64", "", true},
		{"invalid base64", "data:image/png;base64,%%%", "", true},
		{"empty payload", "data:image/png;base64,", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeDataURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
