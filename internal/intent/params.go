package intent

import (
	"regexp"
	"strconv"
)

// Bucket-name patterns in priority order: specific phrasings ("in BUCKET",
// quoted names) beat the looser trailing-token guesses further down.
var bucketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bin\s+([a-zA-Z0-9\-\.]+)`),
	regexp.MustCompile(`bucket\s+([a-zA-Z0-9\-\.]+)`),
	regexp.MustCompile(`([a-zA-Z0-9\-\.]+)\s+bucket`),
	regexp.MustCompile(`'([a-zA-Z0-9\-\.]+)'`),
	regexp.MustCompile(`"([a-zA-Z0-9\-\.]+)"`),
}

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

var bucketStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "all": true, "my": true,
	"your": true, "his": true, "her": true, "its": true, "our": true,
	"their": true,
}

var stateWords = []string{"running", "stopped", "terminated", "pending", "stopping"}

var runtimeWords = []string{"python", "nodejs", "java", "go", "ruby", "dotnet"}

var recursiveWords = []string{"all", "recursive", "everything", "recursively"}

// ExtractParameters pulls structured values out of a request: resource names,
// year ranges, state and runtime filters, and the recursive-listing flag.
// Every extraction is independent and best-effort; a missing parameter just
// leaves its key out of the map.
func ExtractParameters(fs FeatureSet, service ServiceID) map[string]string {
	params := make(map[string]string)

	if service == "s3" {
		if bucket := extractBucketName(fs.RawLowered); bucket != "" {
			params["bucket"] = bucket
		}
	}

	if match := yearPattern.FindStringSubmatch(fs.RawLowered); match != nil {
		year := match[1]
		n, _ := strconv.Atoi(year)
		params["year"] = year
		// Half-open interval: inclusive start, exclusive end. Dec 31 of the
		// year is in range, Jan 1 of the next year is not.
		params["start_date"] = year + "-01-01"
		params["end_date"] = strconv.Itoa(n+1) + "-01-01"
	}

	for _, state := range stateWords {
		if fs.Has(state) {
			params["state"] = state
			break
		}
	}

	for _, runtime := range runtimeWords {
		if fs.Has(runtime) {
			params["runtime"] = runtime
			break
		}
	}

	for _, word := range recursiveWords {
		if fs.Has(word) {
			params["recursive"] = "true"
			break
		}
	}

	return params
}

// extractBucketName walks the pattern list in order and returns the first
// capture that survives the validity filter.
func extractBucketName(raw string) string {
	for _, pattern := range bucketPatterns {
		match := pattern.FindStringSubmatch(raw)
		if match == nil {
			continue
		}
		if candidate := match[1]; validBucketName(candidate) {
			return candidate
		}
	}
	return ""
}

// validBucketName filters out captures that are grammar, not names: too
// short, a stop word, or a bare year (those belong to the time filter).
func validBucketName(name string) bool {
	if len(name) < 3 {
		return false
	}
	if bucketStopWords[name] {
		return false
	}
	if yearPattern.MatchString(name) && len(name) == 4 {
		return false
	}
	return true
}
