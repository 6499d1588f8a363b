package service

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/domains/country/repository"
	"country-currency-api/internal/infrastructure/storage"
)

const (
	summaryWidth    = 800
	summaryHeight   = 600
	summaryTopN     = 5
	titleFontSize   = 40
	textFontSize    = 24
	summaryLineStep = 40

	// SummaryObjectKey là key của bản sao trên MinIO
	SummaryObjectKey = "summary/summary.png"
)

var (
	titleColor = color.RGBA{R: 25, G: 25, B: 112, A: 255} // midnight blue
	textColor  = color.Black
)

// summaryService implements SummaryServiceInterface
type summaryService struct {
	repo      repository.RepositoryInterface
	imagePath string
	fonts     storage.FontSet
	uploader  storage.ObjectUploader // nil khi MinIO tắt
	now       func() time.Time
}

// NewSummaryService creates summary image generator.
// fontPath rỗng hoặc không đọc được → basicfont.
func NewSummaryService(
	repo repository.RepositoryInterface,
	imagePath, fontPath string,
	uploader storage.ObjectUploader,
) SummaryServiceInterface {
	fonts := storage.LoadFonts(fontPath, titleFontSize, textFontSize)
	if fonts.Fallback {
		log.Debug().Str("font_path", fontPath).Msg("[SUMMARY] Using fallback bitmap font")
	}
	return &summaryService{
		repo:      repo,
		imagePath: imagePath,
		fonts:     fonts,
		uploader:  uploader,
		now:       time.Now,
	}
}

func (s *summaryService) ImagePath() string {
	return s.imagePath
}

func (s *summaryService) Exists() bool {
	info, err := os.Stat(s.imagePath)
	return err == nil && !info.IsDir()
}

// Generate vẽ lại toàn bộ ảnh từ trạng thái hiện tại của bảng
func (s *summaryService) Generate(ctx context.Context) (string, error) {
	status, err := s.repo.Status(ctx)
	if err != nil {
		return "", fmt.Errorf("summary status: %w", err)
	}
	top, err := s.repo.TopByGDP(ctx, summaryTopN)
	if err != nil {
		return "", fmt.Errorf("summary top countries: %w", err)
	}

	canvas := storage.NewCanvas(summaryWidth, summaryHeight, color.White)
	canvas.DrawText(50, 50, "Country Data Summary", s.fonts.Title, titleColor)
	canvas.DrawText(50, 120, fmt.Sprintf("Total Countries: %d", status.TotalCountries), s.fonts.Text, textColor)
	canvas.DrawText(50, 170, "Top 5 by GDP:", s.fonts.Text, titleColor)

	for i, c := range top {
		canvas.DrawText(70, 210+i*summaryLineStep, SummaryLine(i+1, c), s.fonts.Text, textColor)
	}

	refreshedAt := s.now()
	if status.LastRefreshedAt != nil {
		refreshedAt = *status.LastRefreshedAt
	}
	canvas.DrawText(50, 500, "Last refreshed: "+refreshedAt.UTC().Format("2006-01-02 15:04:05")+" UTC", s.fonts.Text, textColor)

	if err := canvas.SavePNG(s.imagePath); err != nil {
		return "", err
	}

	if s.uploader != nil {
		s.mirror(ctx, canvas)
	}

	return s.imagePath, nil
}

// mirror upload bản PNG lên object storage; lỗi chỉ được log
func (s *summaryService) mirror(ctx context.Context, canvas *storage.Canvas) {
	var buf bytes.Buffer
	if err := canvas.Encode(&buf); err != nil {
		log.Warn().Err(err).Msg("[SUMMARY] Encode for upload failed")
		return
	}
	url, err := s.uploader.Upload(ctx, SummaryObjectKey, buf.Bytes(), "image/png")
	if err != nil {
		log.Warn().Err(err).Str("key", SummaryObjectKey).Msg("[SUMMARY] Upload failed")
		return
	}
	log.Debug().Str("url", url).Msg("[SUMMARY] Uploaded")
}

// SummaryLine format một dòng top GDP: "1. Nigeria: $1,234.50"
func SummaryLine(rank int, c *model.Country) string {
	gdp := "N/A"
	if c.HasGDP() {
		gdp = "$" + humanize.FormatFloat("#,###.##", c.EstimatedGDP.InexactFloat64())
	}
	return fmt.Sprintf("%d. %s: %s", rank, c.Name, gdp)
}
