// Package view turns an api.ResponsePayload into a structured view tree.
// Render is a pure function with no network or state side effects, so every
// display rule can be tested without a rendering surface.
package view

import (
	"strings"

	"github.com/mediscan/mediscan-api/api"
)

// Fixed display strings. These are part of the page's visible contract.
const (
	WarningBanner          = "Note: results may be based on approximate name matches."
	NoSummariesPlaceholder = "No summaries generated."
	NoAlternatesText       = "No alternates available in my dataset"
	GenericFailureText     = "Something went wrong. Please try again."
	TransportErrorPrefix   = "An error occurred: "
	MissingFieldText       = "N/A"
)

// View is the rendered result of one response payload.
type View struct {
	// Err is the failure text shown in the summary area. When set, the
	// summary fields below are empty.
	Err string

	// Banner precedes the summary blocks when any were generated.
	Banner string

	// Placeholder replaces the summary blocks when none were generated.
	Placeholder string

	SummaryBlocks []SummaryBlock

	// ShowRegenerate reveals the regenerate control. True exactly when the
	// payload was ok.
	ShowRegenerate bool

	// ReplaceDetails is false when the detail panel must stay untouched
	// (failures keep the previous lookup's details on screen).
	ReplaceDetails bool

	DetailBlocks []DetailBlock
}

// SummaryBlock is one labeled summary, its text split into display lines.
type SummaryBlock struct {
	DrugName string
	Lines    []string
}

// DetailBlock renders one DetailEntry with a fixed field order.
type DetailBlock struct {
	Fields       []Field
	Alternatives string
}

// Field is one labeled detail value.
type Field struct {
	Key   string
	Value string
}

// Render maps a response payload to its view tree.
func Render(payload *api.ResponsePayload) View {
	if !payload.OK {
		return View{Err: failureText(payload)}
	}

	v := View{
		ShowRegenerate: true,
		ReplaceDetails: true,
	}

	if len(payload.Summaries) == 0 {
		v.Placeholder = NoSummariesPlaceholder
	} else {
		v.Banner = WarningBanner
		for _, entry := range payload.Summaries {
			v.SummaryBlocks = append(v.SummaryBlocks, SummaryBlock{
				DrugName: entry.DrugName,
				Lines:    strings.Split(entry.Summary, "\n"),
			})
		}
	}

	// Details iterate their own array: summaries and retrieved entries are
	// not paired by index and a length mismatch is tolerated.
	for _, entry := range payload.Retrieved {
		v.DetailBlocks = append(v.DetailBlocks, renderDetail(entry))
	}

	return v
}

// TransportError builds the view for a request that never produced a
// payload. The detail panel keeps its previous content.
func TransportError(err error) View {
	return View{Err: TransportErrorPrefix + err.Error()}
}

func failureText(payload *api.ResponsePayload) string {
	if payload.Error != "" {
		return payload.Error
	}
	if payload.Message != "" {
		return payload.Message
	}
	return GenericFailureText
}

func renderDetail(entry api.DetailEntry) DetailBlock {
	block := DetailBlock{Fields: make([]Field, 0, len(api.DetailFieldKeys))}

	for _, key := range api.DetailFieldKeys {
		value := entry.Field(key)
		if value == "" {
			value = MissingFieldText
		}
		block.Fields = append(block.Fields, Field{Key: key, Value: value})
	}

	if names := entry.Alternatives(); len(names) > 0 {
		block.Alternatives = strings.Join(names, ", ")
	} else {
		block.Alternatives = NoAlternatesText
	}

	return block
}
