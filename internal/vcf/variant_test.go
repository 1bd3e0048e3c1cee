package vcf

import "testing"

func TestVariant_HasID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"rs id", "rs123", true},
		{"cosmic id", "COSM476", true},
		{"placeholder", ".", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{ID: tt.id}
			if got := v.HasID(); got != tt.want {
				t.Errorf("HasID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_NormalizeChrom(t *testing.T) {
	tests := []struct {
		name  string
		chrom string
		want  string
	}{
		{"with chr prefix", "chr12", "12"},
		{"without chr prefix", "12", "12"},
		{"chrX", "chrX", "X"},
		{"X", "X", "X"},
		{"chrM", "chrM", "M"},
		{"MT", "MT", "MT"},
		{"chr1", "chr1", "1"},
		{"empty", "", ""},
		{"short chr", "ch", "ch"}, // too short for "chr" prefix
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Chrom: tt.chrom}
			if got := v.NormalizeChrom(); got != tt.want {
				t.Errorf("NormalizeChrom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariant_Locus(t *testing.T) {
	v := &Variant{Chrom: "X", Pos: 71341908, Ref: "T", Alt: "C"}
	if got := v.Locus(); got != "X:71341908 T>C" {
		t.Errorf("Locus() = %q", got)
	}
}

func TestExtractEvidence(t *testing.T) {
	tests := []struct {
		name     string
		sample   map[string]string
		altIndex int
		want     Evidence
		wantErr  bool
	}{
		{
			name:   "no sample",
			sample: nil,
			want:   Evidence{},
		},
		{
			name:   "platypus counts",
			sample: map[string]string{"NR": "50", "NV": "10"},
			want:   Evidence{Depth: 50, Support: 10, HasDepth: true, HasSupport: true},
		},
		{
			name:     "platypus second allele",
			sample:   map[string]string{"NR": "40,42", "NV": "12,8"},
			altIndex: 1,
			want:     Evidence{Depth: 42, Support: 8, HasDepth: true, HasSupport: true},
		},
		{
			name:     "gatk fallback",
			sample:   map[string]string{"DP": "30", "AD": "20,7,3"},
			altIndex: 1,
			want:     Evidence{Depth: 30, Support: 3, HasDepth: true, HasSupport: true},
		},
		{
			name:   "missing values",
			sample: map[string]string{"NR": ".", "NV": "."},
			want:   Evidence{},
		},
		{
			name:     "allele out of range",
			sample:   map[string]string{"NR": "40,42", "NV": "12,8"},
			altIndex: 2,
			wantErr:  true,
		},
		{
			name:    "not a number",
			sample:  map[string]string{"NR": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractEvidence(tt.sample, tt.altIndex)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extractEvidence() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
