package sales

import (
	"context"
	"math"
	"sort"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

// monthLabels maps month numbers 1-12 to their display abbreviation.
// September is "Sept", matching the storefront's frontend charts.
var monthLabels = [13]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sept", "Oct", "Nov", "Dec"}

// ProductSalesReport is the per-product revenue breakdown with each
// product's share of the items grand total.
type ProductSalesReport struct {
	PerProduct []*domain.ProductRevenue `json:"product_sales"`
	GrandTotal float64                  `json:"grand_total"`
}

// Service computes the sales reports
type Service struct {
	repo          domain.SalesRepository
	chronological bool
	logger        *logger.Logger
}

// NewService creates a new sales service. chronological switches the
// monthly report to full (year, month) ordering; the default keeps the
// legacy month-number ordering the frontend charts were built against.
func NewService(repo domain.SalesRepository, chronological bool, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		chronological: chronological,
		logger:        log,
	}
}

// ProductSales returns each product's revenue and its percent share of
// the grand total. With no orders the report is empty with a zero
// grand total, never NaN.
func (s *Service) ProductSales(ctx context.Context) (*ProductSalesReport, error) {
	grandTotal, err := s.repo.ItemsGrandTotal(ctx)
	if err != nil {
		s.logger.Error("Failed to compute items grand total", err)
		return nil, err
	}

	rows, err := s.repo.ProductSales(ctx)
	if err != nil {
		s.logger.Error("Failed to compute product sales", err)
		return nil, err
	}

	for _, row := range rows {
		if grandTotal > 0 {
			row.Percent = round2(row.Revenue / grandTotal * 100)
		}
	}

	return &ProductSalesReport{
		PerProduct: rows,
		GrandTotal: grandTotal,
	}, nil
}

// CustomerSales returns each customer's summed order total, descending
func (s *Service) CustomerSales(ctx context.Context) ([]*domain.CustomerRevenue, error) {
	rows, err := s.repo.CustomerSales(ctx)
	if err != nil {
		s.logger.Error("Failed to compute customer sales", err)
		return nil, err
	}

	return rows, nil
}

// SalesPerMonth returns one row per populated (year, month) bucket of
// paid_at. The default ordering sorts by month number only, so the
// same calendar month of different years stays adjacent even though
// the buckets remain separate.
func (s *Service) SalesPerMonth(ctx context.Context) ([]*domain.MonthlyRevenue, error) {
	rows, err := s.repo.SalesPerMonth(ctx)
	if err != nil {
		s.logger.Error("Failed to compute monthly sales", err)
		return nil, err
	}

	if s.chronological {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Year != rows[j].Year {
				return rows[i].Year < rows[j].Year
			}
			return rows[i].Month < rows[j].Month
		})
	} else {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Month != rows[j].Month {
				return rows[i].Month < rows[j].Month
			}
			// Year only breaks ties so the output is deterministic
			return rows[i].Year < rows[j].Year
		})
	}

	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			row.Label = monthLabels[row.Month]
		}
	}

	return rows, nil
}

// TotalOrders returns the order count
func (s *Service) TotalOrders(ctx context.Context) (int, error) {
	count, err := s.repo.TotalOrders(ctx)
	if err != nil {
		s.logger.Error("Failed to count orders", err)
		return 0, err
	}

	return count, nil
}

// TotalSales returns the summed order totals
func (s *Service) TotalSales(ctx context.Context) (float64, error) {
	total, err := s.repo.TotalSales(ctx)
	if err != nil {
		s.logger.Error("Failed to sum sales", err)
		return 0, err
	}

	return total, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
