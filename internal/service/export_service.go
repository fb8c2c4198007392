package service

import (
	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/export"
	"go-slab-ws/internal/metrics"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/session"

	"go.uber.org/zap"
)

type ExportService interface {
	Export(sess *session.Session, ref string) (*ExportFile, error)
}

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
	Report      *export.Report
}

type exportService struct {
	batchRepo repository.BatchRepository
	slabRepo  repository.SlabRepository
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewExportService(bRepo repository.BatchRepository, sRepo repository.SlabRepository, m *metrics.Metrics, log *zap.Logger) ExportService {
	return &exportService{
		batchRepo: bRepo,
		slabRepo:  sRepo,
		metrics:   m,
		log:       log,
	}
}

// Export builds the report for one batch. Reads only; the workbook is
// assembled in memory and handed back for download.
func (s *exportService) Export(sess *session.Session, ref string) (*ExportFile, error) {
	if err := authorize(sess, model.PrivReportExport); err != nil {
		return nil, err
	}
	number, err := resolveBatch(sess, ref)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.FindWithOwner(number)
	if err != nil {
		return nil, err
	}
	if !canAccess(sess, batch) {
		return nil, apperr.ErrNotFound
	}
	slabs, err := s.slabRepo.FindByBatch(number)
	if err != nil {
		return nil, err
	}

	report := export.NewReport(batch, slabs)
	data, err := report.Workbook()
	if err != nil {
		s.log.Error("render workbook", zap.String("batch_number", number), zap.Error(err))
		return nil, err
	}

	s.metrics.Exports.Inc()
	return &ExportFile{
		FileName:    report.FileName(),
		ContentType: export.ContentType,
		Data:        data,
		Report:      report,
	}, nil
}
