package annotate

import "github.com/inodb/varannot/internal/ensembl"

// Candidate is one transcript's value for a multi-valued field.
type Candidate struct {
	Value      string
	Canonical  bool // transcript flagged canonical by the service
	MostSevere bool // transcript carries the payload's most severe consequence
}

func (c Candidate) rank() int {
	r := 0
	if c.Canonical {
		r += 2
	}
	if c.MostSevere {
		r++
	}
	return r
}

// Select reduces candidates to one value. Canonical transcripts win, then
// transcripts carrying the most severe consequence, then the first listed.
// Empty values never win. Returns "" if no candidate has a value.
//
// Gene, variant type and effect are all resolved with this one rule.
func Select(candidates []Candidate) string {
	best := -1
	for i, c := range candidates {
		if c.Value == "" {
			continue
		}
		if best < 0 || c.rank() > candidates[best].rank() {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return candidates[best].Value
}

// Candidates builds one candidate per transcript consequence of p, in payload
// order, with value extracting the field of interest.
func Candidates(p *ensembl.EffectPayload, value func(tc *ensembl.TranscriptConsequence) string) []Candidate {
	if p == nil {
		return nil
	}
	out := make([]Candidate, len(p.TranscriptConsequences))
	for i := range p.TranscriptConsequences {
		tc := &p.TranscriptConsequences[i]
		out[i] = Candidate{
			Value:      value(tc),
			Canonical:  tc.IsCanonical(),
			MostSevere: p.MostSevereConsequence != "" && tc.HasTerm(p.MostSevereConsequence),
		}
	}
	return out
}
