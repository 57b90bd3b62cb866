package dating

var metadataScores = map[string]int{
	FieldDateTimeOriginal:  100,
	FieldCreateDate:        95,
	FieldDateTime:          90,
	FieldDateTimeDigitized: 85,
	FieldModifyDate:        80,
	FieldFileModifyDate:    75,
}

var filenameScores = map[Granularity]int{
	GranularitySeconds:   70,
	GranularityMinutes:   65,
	GranularityDate:      60,
	GranularityYearMonth: 55,
	GranularityOther:     50,
	GranularityYear:      20,
}

var pathScores = map[Granularity]int{
	GranularitySeconds:   45,
	GranularityMinutes:   40,
	GranularityDate:      35,
	GranularityYearMonth: 30,
	GranularityOther:     25,
	GranularityYear:      10,
}

// Score maps a provenance to its confidence. Unknown provenance scores 0.
func Score(p Provenance) int {
	switch p.Source {
	case SourceMetadata:
		return metadataScores[p.Field]
	case SourceFilename:
		return filenameScores[p.Shape.Granularity()]
	case SourcePath:
		return pathScores[p.Shape.Granularity()]
	}
	return 0
}
