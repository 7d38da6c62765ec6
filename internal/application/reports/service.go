package reports

import (
	"context"
	"errors"
	"strings"

	"barterzone-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReasonRequired = errors.New("Report reason is required")
	ErrTradeNotFound  = errors.New("Trade not found")
	ErrNotParty       = errors.New("User is not a party to this trade")
	ErrSelfReport     = errors.New("Cannot report yourself")
)

type Service struct {
	DB *gorm.DB
}

// CreateReport files a pending complaint against the counterpart on a trade.
func (s *Service) CreateReport(ctx context.Context, reporterID, tradeID uuid.UUID, reason, description string) (*domain.Report, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	var t domain.Trade
	if err := s.DB.WithContext(ctx).Where("trade_id = ?", tradeID).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if !t.IsParty(reporterID) {
		return nil, ErrNotParty
	}
	reported := t.Counterpart(reporterID)
	if reported == reporterID {
		return nil, ErrSelfReport
	}
	r := &domain.Report{
		ReporterID:  reporterID,
		ReportedID:  reported,
		TradeID:     tradeID,
		Reason:      reason,
		Description: description,
		Status:      domain.ReportStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// MyReports lists reports filed by the user.
func (s *Service) MyReports(ctx context.Context, reporterID uuid.UUID) ([]domain.Report, error) {
	var rs []domain.Report
	if err := s.DB.WithContext(ctx).Where("reporter_id = ?", reporterID).
		Order("created_at DESC").Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}
