// Package blastxml reads NCBI BLAST XML reports (outfmt 5) into the domain model.
package blastxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"blastview/internal/domain"
)

var (
	// ErrNotBlastXML is returned when the document root is not BlastOutput
	ErrNotBlastXML = errors.New("not a BLAST XML report")
	// ErrNoIterations is returned when the report contains no iterations
	ErrNoIterations = errors.New("BLAST report has no iterations")
)

type xmlOutput struct {
	XMLName    xml.Name       `xml:"BlastOutput"`
	Program    string         `xml:"BlastOutput_program"`
	Version    string         `xml:"BlastOutput_version"`
	Database   string         `xml:"BlastOutput_db"`
	QueryID    string         `xml:"BlastOutput_query-ID"`
	QueryDef   string         `xml:"BlastOutput_query-def"`
	QueryLen   int            `xml:"BlastOutput_query-len"`
	Iterations []xmlIteration `xml:"BlastOutput_iterations>Iteration"`
}

type xmlIteration struct {
	Num      int      `xml:"Iteration_iter-num"`
	QueryID  string   `xml:"Iteration_query-ID"`
	QueryDef string   `xml:"Iteration_query-def"`
	QueryLen int      `xml:"Iteration_query-len"`
	Hits     []xmlHit `xml:"Iteration_hits>Hit"`
	Message  string   `xml:"Iteration_message"`
}

type xmlHit struct {
	Num       int      `xml:"Hit_num"`
	ID        string   `xml:"Hit_id"`
	Def       string   `xml:"Hit_def"`
	Accession string   `xml:"Hit_accession"`
	Len       int      `xml:"Hit_len"`
	HSPs      []xmlHSP `xml:"Hit_hsps>Hsp"`
}

type xmlHSP struct {
	Num       int     `xml:"Hsp_num"`
	BitScore  float64 `xml:"Hsp_bit-score"`
	Score     int     `xml:"Hsp_score"`
	EValue    float64 `xml:"Hsp_evalue"`
	QueryFrom int     `xml:"Hsp_query-from"`
	QueryTo   int     `xml:"Hsp_query-to"`
	HitFrom   int     `xml:"Hsp_hit-from"`
	HitTo     int     `xml:"Hsp_hit-to"`
	Identity  int     `xml:"Hsp_identity"`
	Positive  int     `xml:"Hsp_positive"`
	Gaps      int     `xml:"Hsp_gaps"`
	AlignLen  int     `xml:"Hsp_align-len"`
	QSeq      string  `xml:"Hsp_qseq"`
	HSeq      string  `xml:"Hsp_hseq"`
	Midline   string  `xml:"Hsp_midline"`
}

// ReadFile parses the report at path
func ReadFile(path string) (*domain.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	res, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Source = path
	return res, nil
}

// Decode parses a report from r
func Decode(r io.Reader) (*domain.Result, error) {
	var out xmlOutput
	if err := xml.NewDecoder(r).Decode(&out); err != nil {
		var unexpected xml.UnmarshalError
		if errors.As(err, &unexpected) {
			return nil, fmt.Errorf("%w: %v", ErrNotBlastXML, err)
		}
		return nil, fmt.Errorf("decode BLAST XML: %w", err)
	}
	if len(out.Iterations) == 0 {
		return nil, ErrNoIterations
	}

	return out.toDomain(), nil
}

func (o *xmlOutput) toDomain() *domain.Result {
	res := &domain.Result{
		Program:    o.Program,
		Version:    o.Version,
		Database:   o.Database,
		QueryID:    o.QueryID,
		QueryDef:   o.QueryDef,
		QueryLen:   o.QueryLen,
		Iterations: make([]domain.Iteration, 0, len(o.Iterations)),
	}

	for i, xi := range o.Iterations {
		it := domain.Iteration{
			Num:      xi.Num,
			QueryID:  xi.QueryID,
			QueryDef: xi.QueryDef,
			QueryLen: xi.QueryLen,
			Message:  xi.Message,
			Hits:     make([]domain.Hit, 0, len(xi.Hits)),
		}
		if it.Num == 0 {
			it.Num = i + 1
		}
		if it.QueryLen == 0 {
			it.QueryLen = o.QueryLen
		}

		for _, xh := range xi.Hits {
			hit := domain.Hit{
				Num:       xh.Num,
				ID:        xh.ID,
				Def:       xh.Def,
				Accession: accessionOf(xh),
				Len:       xh.Len,
				HSPs:      make([]domain.HSP, 0, len(xh.HSPs)),
			}
			for j, xs := range xh.HSPs {
				num := xs.Num
				if num == 0 {
					num = j + 1
				}
				hit.HSPs = append(hit.HSPs, domain.HSP{
					Num:       num,
					BitScore:  xs.BitScore,
					Score:     xs.Score,
					EValue:    xs.EValue,
					QueryFrom: xs.QueryFrom,
					QueryTo:   xs.QueryTo,
					HitFrom:   xs.HitFrom,
					HitTo:     xs.HitTo,
					Identity:  xs.Identity,
					Positive:  xs.Positive,
					Gaps:      xs.Gaps,
					AlignLen:  xs.AlignLen,
					QSeq:      xs.QSeq,
					HSeq:      xs.HSeq,
					Midline:   xs.Midline,
				})
			}
			it.Hits = append(it.Hits, hit)
		}
		res.Iterations = append(res.Iterations, it)
	}

	return res
}

// accessionOf falls back to the id when the report carries no accession,
// e.g. "gnl|BL_ORD_ID|12" or "sp|P69905|HBA_HUMAN" -> "P69905"
func accessionOf(h xmlHit) string {
	if h.Accession != "" {
		return h.Accession
	}
	parts := strings.Split(h.ID, "|")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	return h.ID
}
