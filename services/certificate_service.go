package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/storage"
)

var ErrCertificateNotEarned = errors.New("project is not ranked at a published level")

// Certificate is the generated document plus its public location.
type Certificate struct {
	ProjectID int    `json:"project_id"`
	Level     string `json:"level"`
	Rank      int    `json:"rank"`
	URL       string `json:"url"`
}

type CertificateService struct {
	ranking  *RankingService
	uploader storage.FileUploader
}

func NewCertificateService(ranking *RankingService, uploader storage.FileUploader) *CertificateService {
	return &CertificateService{ranking: ranking, uploader: uploader}
}

const certificateTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Certificate of Achievement</title></head>
<body style="text-align:center;font-family:Georgia,serif;padding:60px;">
  <h1>Kenya Science and Engineering Fair</h1>
  <h2>Certificate of Achievement</h2>
  <p>This certifies that the project</p>
  <h3>{{.Title}}</h3>
  <p>from <strong>{{.School}}</strong>, presented by {{.Students}},</p>
  <p>was ranked <strong>position {{.Rank}}</strong> in the
  <strong>{{.Category}}</strong> category at the
  <strong>{{.Level}}</strong> level, {{.Year}} edition.</p>
</body>
</html>`

// GenerateCertificate renders and uploads a winner certificate for one
// ranked project at a level. The project must hold a rank in the
// current standings at that level.
func (s *CertificateService) GenerateCertificate(ctx context.Context, projectID int, level models.CompetitionLevel) (*Certificate, error) {
	ranking, err := s.ranking.GetRankings(ctx, level)
	if err != nil {
		return nil, err
	}

	var found *scoringRankedProject
	for category := range ranking.Categories {
		for _, rp := range ranking.Categories[category] {
			if rp.Project.ID == projectID {
				found = &scoringRankedProject{rp.Project, rp.CategoryRank, category}
				break
			}
		}
	}
	if found == nil {
		return nil, ErrCertificateNotEarned
	}

	edition, err := s.ranking.activeEdition(ctx)
	if err != nil {
		return nil, err
	}

	t, err := template.New("certificate").Parse(certificateTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate template: %w", err)
	}
	var doc bytes.Buffer
	err = t.Execute(&doc, struct {
		Title    string
		School   string
		Students string
		Rank     int
		Category string
		Level    string
		Year     int
	}{
		Title:    found.project.Title,
		School:   found.project.School,
		Students: strings.Join(found.project.Students, ", "),
		Rank:     found.rank,
		Category: found.category,
		Level:    level.String(),
		Year:     edition.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	key := fmt.Sprintf("certificates/%d/%s/project_%d.html", edition.ID, level, projectID)
	result, err := s.uploader.Upload(ctx, key, "text/html; charset=utf-8", &doc)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		ProjectID: projectID,
		Level:     level.String(),
		Rank:      found.rank,
		URL:       result.Location,
	}, nil
}

type scoringRankedProject struct {
	project  models.Project
	rank     int
	category string
}
