// Package dating picks the most trustworthy timestamp for a media file out of
// its metadata, its filename and its directory path.
//
// Every source is reduced to candidates: an instant plus the provenance that
// produced it. Provenance alone decides the score; the resolver keeps one
// candidate per instant and ranks by score, then by earliest instant.
package dating

import (
	"fmt"
	"time"
)

// Metadata fields in preference order.
const (
	FieldDateTimeOriginal  = "DateTimeOriginal"
	FieldCreateDate        = "CreateDate"
	FieldDateTime          = "DateTime"
	FieldDateTimeDigitized = "DateTimeDigitized"
	FieldModifyDate        = "ModifyDate"
	FieldFileModifyDate    = "FileModifyDate"
)

// MetadataFields lists the recognized metadata fields in preference order.
var MetadataFields = []string{
	FieldDateTimeOriginal,
	FieldCreateDate,
	FieldDateTime,
	FieldDateTimeDigitized,
	FieldModifyDate,
	FieldFileModifyDate,
}

// Source is the kind of evidence a candidate came from.
type Source int

const (
	SourceUnknown Source = iota
	SourceMetadata
	SourceFilename
	SourcePath
)

func (s Source) String() string {
	switch s {
	case SourceMetadata:
		return "metadata"
	case SourceFilename:
		return "filename"
	case SourcePath:
		return "path"
	}
	return "unknown"
}

// Provenance says where a candidate came from. Field is set for metadata,
// Shape for filename and path candidates.
type Provenance struct {
	Source Source
	Field  string
	Shape  Shape
}

func (p Provenance) String() string {
	if p.Source == SourceMetadata {
		return fmt.Sprintf("%s:%s", p.Source, p.Field)
	}
	return fmt.Sprintf("%s:%s", p.Source, p.Shape)
}

// Candidate is one observed date.
type Candidate struct {
	Instant    time.Time
	Provenance Provenance
}

// Rejection is a date that was read correctly but failed the sanity filter.
type Rejection struct {
	Instant    time.Time
	Provenance Provenance
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s from %s", r.Instant.Format(ReportLayout), r.Provenance)
}

// ReportLayout is the timestamp layout used in diagnostics.
const ReportLayout = "2006-01-02 15:04:05"
