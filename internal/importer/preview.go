package importer

// Max sample rows returned by a preview.
const maxSampleRows = 10

// PreviewColumn describes one source column: its explicit mapping if any,
// and the classifier's verdict for unmapped headers.
type PreviewColumn struct {
	Header       string      `json:"header"`
	Target       TargetField `json:"target,omitempty"`
	DetectedKind string      `json:"detectedKind,omitempty"`
	DetectedCode string      `json:"detectedCode,omitempty"`
}

// PreviewResponse is a read-only analysis of an upload before import:
// resolved delimiter, classified columns, row count, and a handful of
// sample rows with extraction rules already applied.
type PreviewResponse struct {
	Delimiter  string          `json:"delimiter"`
	TotalRows  int             `json:"totalRows"`
	Columns    []PreviewColumn `json:"columns"`
	SampleRows [][]string      `json:"sampleRows"`
}

// Preview parses and classifies an upload without touching the remote
// service. Extraction rules are applied to the sample rows so users see the
// exact values the import would submit.
func (s *Service) Preview(req ImportRequest) (*PreviewResponse, error) {
	if s.maxFileSize > 0 && int64(len(req.Data)) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}
	if err := Validate(req.Mapping, req.Rules); err != nil {
		return nil, err
	}

	table, err := parseUpload(req.FileName, req.Data, req.Delimiter)
	if err != nil {
		return nil, err
	}

	detected := ClassifyHeaders(table.Headers, req.Mapping)
	detectedByHeader := make(map[string]DetectedColumn, len(detected))
	for _, col := range detected {
		detectedByHeader[col.Header] = col
	}

	columns := make([]PreviewColumn, 0, len(table.Headers))
	for _, header := range table.Headers {
		col := PreviewColumn{Header: header, Target: req.Mapping[header]}
		if det, ok := detectedByHeader[header]; ok {
			col.DetectedCode = det.Code
			if det.Kind == KindGeo {
				col.DetectedKind = "geo"
			} else {
				col.DetectedKind = "device"
			}
		}
		columns = append(columns, col)
	}

	samples := make([][]string, 0, maxSampleRows)
	for _, row := range table.Rows {
		if len(samples) == maxSampleRows {
			break
		}
		samples = append(samples, applyRules(table.Headers, row, req.Rules))
	}

	return &PreviewResponse{
		Delimiter:  string(table.Delimiter),
		TotalRows:  len(table.Rows),
		Columns:    columns,
		SampleRows: samples,
	}, nil
}

// applyRules returns a copy of row with each ruled column's value run
// through its extraction rule.
func applyRules(headers []string, row []string, rules ExtractionRules) []string {
	out := make([]string, len(row))
	copy(out, row)

	for i, header := range headers {
		if i >= len(out) {
			break
		}
		if rule, ok := rules[header]; ok {
			out[i] = Extract(out[i], &rule)
		}
	}
	return out
}
