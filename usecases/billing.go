package usecases

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"splitmate-server/apperrors"
	"splitmate-server/entities"
	"splitmate-server/repositories"

	"gorm.io/gorm"
)

// Wire shapes of the aggregated bill, matching what the mobile client binds.

type BillingPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Usage struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type UtilityShare struct {
	UtilityID    string  `json:"utilityId"`
	UtilityName  string  `json:"utilityName"`
	TotalCost    float64 `json:"totalCost"`
	UsageRecords []Usage `json:"usageRecords"`
}

type HouseBill struct {
	HouseID       string        `json:"houseId"`
	BillingPeriod BillingPeriod `json:"billingPeriod"`
	ElectricUsage []Usage       `json:"electricUsage"`
	WaterUsage    []Usage       `json:"waterUsage"`
	GasUsage      []Usage       `json:"gasUsage"`
	TotalElectric float64       `json:"totalElectric"`
	TotalWater    float64       `json:"totalWater"`
	TotalGas      float64       `json:"totalGas"`
	TotalHouse    float64       `json:"totalHouse"`
}

type TenantBill struct {
	BillingPeriod BillingPeriod  `json:"billingPeriod"`
	TotalAmount   float64        `json:"totalAmount"`
	Utilities     []UtilityShare `json:"utilities"`
	Status        string         `json:"status"`
}

type BillResponse struct {
	HouseBill  *HouseBill  `json:"houseBill"`
	TenantBill *TenantBill `json:"tenantBill"`
}

// houseIDPattern is the id format the upload endpoint enforces: exactly 24
// hex characters.
var houseIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

type BillingUseCase struct {
	Houses      repositories.HouseRepository
	Utilities   repositories.UtilityRepository
	Usage       repositories.UsageRecordRepository
	TenantBills repositories.TenantBillRepository
	Documents   repositories.BillDocumentRepository
}

func NewBillingUseCase(
	houses repositories.HouseRepository,
	utilities repositories.UtilityRepository,
	usage repositories.UsageRecordRepository,
	tenantBills repositories.TenantBillRepository,
	documents repositories.BillDocumentRepository,
) *BillingUseCase {
	return &BillingUseCase{
		Houses:      houses,
		Utilities:   utilities,
		Usage:       usage,
		TenantBills: tenantBills,
		Documents:   documents,
	}
}

// ParseBillingPeriod turns a chosenDate (first-of-month ISO-8601 UTC
// instant) into the period start. Anything that is not the first day of a
// month is rejected.
func ParseBillingPeriod(chosenDate string) (time.Time, error) {
	if chosenDate == "" {
		return time.Time{}, apperrors.Validation("chosenDate is required")
	}
	t, err := time.Parse(time.RFC3339, chosenDate)
	if err != nil {
		return time.Time{}, apperrors.Validation("chosenDate %q is not a valid ISO-8601 timestamp", chosenDate)
	}
	t = t.UTC()
	if t.Day() != 1 {
		return time.Time{}, apperrors.Validation("chosenDate must be the first day of a month")
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func periodEnd(start time.Time) time.Time {
	return start.AddDate(0, 1, 0)
}

// periodKey is the canonical string used to key tenant bills and documents.
func periodKey(start time.Time) string {
	return start.Format(time.RFC3339)
}

func wirePeriod(start time.Time) BillingPeriod {
	return BillingPeriod{
		Start: start.Format(time.RFC3339),
		End:   periodEnd(start).Format(time.RFC3339),
	}
}

// RecordUsage upserts one daily sample for a utility. Writing the same day
// twice overwrites the earlier amount.
func (uc *BillingUseCase) RecordUsage(utilityID, date string, amount float64) error {
	if utilityID == "" {
		return apperrors.Validation("utilityId is required")
	}
	if amount < 0 {
		return apperrors.Validation("amount must be non-negative")
	}
	if _, err := time.Parse(entities.UsageDateLayout, date); err != nil {
		return apperrors.Validation("date %q must be formatted %s", date, entities.UsageDateLayout)
	}
	if _, err := uc.Utilities.GetByID(utilityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("utility %s", utilityID)
		}
		return err
	}
	return uc.Usage.Upsert(&entities.UsageRecord{
		UtilityID: utilityID,
		Date:      date,
		Amount:    amount,
	})
}

// ComputeHouseBill aggregates the house's usage for one billing period:
// pull every utility, partition by type, sum the records inside
// [periodStart, periodEnd). Utilities without records still contribute an
// empty bucket so the totals stay all-zero instead of missing.
func (uc *BillingUseCase) ComputeHouseBill(houseID string, periodStart time.Time) (*HouseBill, error) {
	if houseID == "" {
		return nil, apperrors.Validation("houseId is required")
	}
	if _, err := uc.Houses.GetByID(houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("house %s", houseID)
		}
		return nil, err
	}

	utilities, err := uc.Utilities.GetByHouseID(houseID)
	if err != nil {
		return nil, err
	}

	bill := &HouseBill{
		HouseID:       houseID,
		BillingPeriod: wirePeriod(periodStart),
		ElectricUsage: []Usage{},
		WaterUsage:    []Usage{},
		GasUsage:      []Usage{},
	}

	startDate := periodStart.Format(entities.UsageDateLayout)
	endDate := periodEnd(periodStart).Format(entities.UsageDateLayout)

	for _, utility := range utilities {
		records, err := uc.Usage.GetByUtilityAndRange(utility.ID, startDate, endDate)
		if err != nil {
			return nil, err
		}
		usages, total := toUsages(records)
		switch utility.Type {
		case entities.UtilityTypeElectric:
			bill.ElectricUsage = append(bill.ElectricUsage, usages...)
			bill.TotalElectric += total
		case entities.UtilityTypeWater:
			bill.WaterUsage = append(bill.WaterUsage, usages...)
			bill.TotalWater += total
		case entities.UtilityTypeGas:
			bill.GasUsage = append(bill.GasUsage, usages...)
			bill.TotalGas += total
		}
	}

	bill.TotalHouse = bill.TotalElectric + bill.TotalWater + bill.TotalGas
	return bill, nil
}

// ComputeTenantBill derives a tenant's bill for a period. There is no
// per-tenant utility assignment: every utility of the house contributes its
// full cost to every tenant, so the tenant total equals the house total.
func (uc *BillingUseCase) ComputeTenantBill(tenantID, houseID string, periodStart time.Time) (*TenantBill, error) {
	if tenantID == "" {
		return nil, apperrors.Validation("tenantId is required")
	}
	if _, err := uc.Houses.GetByID(houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("house %s", houseID)
		}
		return nil, err
	}

	utilities, err := uc.Utilities.GetByHouseID(houseID)
	if err != nil {
		return nil, err
	}

	bill := &TenantBill{
		BillingPeriod: wirePeriod(periodStart),
		Utilities:     []UtilityShare{},
		Status:        entities.BillStatusPending,
	}

	startDate := periodStart.Format(entities.UsageDateLayout)
	endDate := periodEnd(periodStart).Format(entities.UsageDateLayout)

	for _, utility := range utilities {
		records, err := uc.Usage.GetByUtilityAndRange(utility.ID, startDate, endDate)
		if err != nil {
			return nil, err
		}
		usages, total := toUsages(records)
		bill.Utilities = append(bill.Utilities, UtilityShare{
			UtilityID:    utility.ID,
			UtilityName:  utility.Name,
			TotalCost:    total,
			UsageRecords: usages,
		})
		bill.TotalAmount += total
	}

	if stored, err := uc.TenantBills.GetByKey(tenantID, houseID, periodKey(periodStart)); err == nil {
		bill.Status = stored.Status
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return bill, nil
}

// GetBill is the single aggregation query behind POST /api/bills: one call
// returns the house bill and the caller's tenant bill for the period.
func (uc *BillingUseCase) GetBill(tenantID, houseID, chosenDate string) (*BillResponse, error) {
	periodStart, err := ParseBillingPeriod(chosenDate)
	if err != nil {
		return nil, err
	}
	houseBill, err := uc.ComputeHouseBill(houseID, periodStart)
	if err != nil {
		return nil, err
	}
	tenantBill, err := uc.ComputeTenantBill(tenantID, houseID, periodStart)
	if err != nil {
		return nil, err
	}
	return &BillResponse{HouseBill: houseBill, TenantBill: tenantBill}, nil
}

// Pay transitions the caller's bill for the period from pending to paid.
// The amount is captured at payment time and never re-derived. A second pay
// for the same period fails with ErrAlreadyPaid and leaves the bill paid.
func (uc *BillingUseCase) Pay(tenantID, houseID, chosenDate string) (string, error) {
	periodStart, err := ParseBillingPeriod(chosenDate)
	if err != nil {
		return "", err
	}

	tenantBill, err := uc.ComputeTenantBill(tenantID, houseID, periodStart)
	if err != nil {
		return "", err
	}

	key := periodKey(periodStart)
	if _, err := uc.TenantBills.GetByKey(tenantID, houseID, key); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if err := uc.TenantBills.Create(&entities.TenantBill{
			TenantID:    tenantID,
			HouseID:     houseID,
			PeriodStart: key,
			Status:      entities.BillStatusPending,
		}); err != nil {
			// A concurrent pay may have created the row first; keep going
			// and let the conditional update decide.
			if _, getErr := uc.TenantBills.GetByKey(tenantID, houseID, key); getErr != nil {
				return "", err
			}
		}
	}

	paid, err := uc.TenantBills.MarkPaid(tenantID, houseID, key, tenantBill.TotalAmount)
	if err != nil {
		return "", err
	}
	if !paid {
		return "", apperrors.ErrAlreadyPaid
	}
	return entities.BillStatusPaid, nil
}

// UploadBill stores a bill PDF for a (house, period). The houseId format
// check runs before anything is written.
func (uc *BillingUseCase) UploadBill(houseID, totalAmount, chosenDate, fileName string, pdf []byte) error {
	if !houseIDPattern.MatchString(houseID) {
		return apperrors.Validation("houseId must be a 24-character hex string")
	}
	amount, err := strconv.ParseFloat(totalAmount, 64)
	if err != nil || amount < 0 {
		return apperrors.Validation("totalAmount %q is not a valid amount", totalAmount)
	}
	periodStart, err := ParseBillingPeriod(chosenDate)
	if err != nil {
		return err
	}
	if len(pdf) == 0 {
		return apperrors.Validation("pdf file is required")
	}
	if _, err := uc.Houses.GetByID(houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("house %s", houseID)
		}
		return err
	}
	return uc.Documents.Upsert(&entities.BillDocument{
		HouseID:     houseID,
		PeriodStart: periodKey(periodStart),
		TotalAmount: amount,
		FileName:    fileName,
		Data:        pdf,
	})
}

// DownloadBill returns the stored PDF for a (house, billing date).
func (uc *BillingUseCase) DownloadBill(houseID, billingDate string) (*entities.BillDocument, error) {
	periodStart, err := ParseBillingPeriod(billingDate)
	if err != nil {
		return nil, err
	}
	doc, err := uc.Documents.GetByHouseAndPeriod(houseID, periodKey(periodStart))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no bill uploaded for house %s in that period", houseID)
		}
		return nil, err
	}
	return doc, nil
}

func toUsages(records []entities.UsageRecord) ([]Usage, float64) {
	usages := make([]Usage, 0, len(records))
	var total float64
	for _, record := range records {
		usages = append(usages, Usage{Date: record.Date, Amount: record.Amount})
		total += record.Amount
	}
	return usages, total
}
