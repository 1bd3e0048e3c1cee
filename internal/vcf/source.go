package vcf

import "fmt"

// LoadAll reads every record from path, splitting multi-allelic rows so that
// each returned variant carries exactly one alternate allele. Order follows
// the input file.
func LoadAll(path string) ([]*Variant, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return ReadAll(p)
}

// ReadAll drains a parser into split, ordered variants.
func ReadAll(p *Parser) ([]*Variant, error) {
	var variants []*Variant
	for {
		v, err := p.Next()
		if err != nil {
			return nil, fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			return variants, nil
		}

		split, err := SplitMultiAllelic(v)
		if err != nil {
			return nil, err
		}
		variants = append(variants, split...)
	}
}
