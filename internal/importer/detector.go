package importer

import (
	"bytes"
	"strings"
)

// detectionSampleSize bounds the keyword scan. Bank signatures live in the
// first few rows of a statement.
const detectionSampleSize = 8192

// Detect identifies the bank format of a statement file. Registered formats
// are tried in registration order and the first content signature match wins;
// when nothing matches by content, filename hints are tried in the same order.
// Detection never errors: unrecognizable input simply reports no match.
func (r *Registry) Detect(content []byte, filename string) (*FormatDescriptor, bool) {
	kind := DetectContentKind(content)
	sample := bytes.ToLower(head(content, detectionSampleSize))
	if kind == ContentZIP {
		// Signature keywords live in the sheet cells, which a scan over the
		// compressed archive bytes would never see.
		if text := xlsxText(content, detectionSampleSize); len(text) > 0 {
			sample = bytes.ToLower(text)
		}
	}

	for _, d := range r.formats {
		if d.Signature.matchesContent(kind, sample) {
			return d, true
		}
	}

	name := strings.ToLower(filename)
	if name != "" {
		for _, d := range r.formats {
			if d.Signature.matchesFilename(name) {
				return d, true
			}
		}
	}

	return nil, false
}

func (s *Signature) matchesContent(kind ContentKind, sample []byte) bool {
	if !s.allowsKind(kind) {
		return false
	}
	for _, group := range s.KeywordGroups {
		if containsAll(sample, group) {
			return true
		}
	}
	return false
}

func (s *Signature) matchesFilename(name string) bool {
	for _, group := range s.FilenameHintGroups {
		all := true
		for _, hint := range group {
			if !strings.Contains(name, hint) {
				all = false
				break
			}
		}
		if all && len(group) > 0 {
			return true
		}
	}
	return false
}

func (s *Signature) allowsKind(kind ContentKind) bool {
	for _, k := range s.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func containsAll(sample []byte, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !bytes.Contains(sample, []byte(kw)) {
			return false
		}
	}
	return true
}
