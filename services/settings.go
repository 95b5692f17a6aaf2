package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Settings is the application-wide configuration snapshot. It is stored as
// the single record of the settings collection and read fresh before each
// operation that needs it; missing fields fall back to the defaults.
type Settings struct {
	TaxRate           int    `json:"taxRate"`
	DefaultProfitRate int    `json:"defaultProfitRate"`
	DailyRate         int    `json:"dailyRate"`
	EstimateValidDays int    `json:"estimateValidDays"`
	PaymentTerms      string `json:"paymentTerms"`

	CompanyName   string `json:"companyName"`
	PostalCode    string `json:"postalCode"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Fax           string `json:"fax"`
	Email         string `json:"email"`
	InvoiceNumber string `json:"invoiceNumber"` // 適格請求書発行事業者の登録番号
	BankName      string `json:"bankName"`
	BranchName    string `json:"branchName"`
	AccountType   string `json:"accountType"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// Payment term choices for invoice due dates.
const (
	PaymentTermsEndOfNextMonth      = "翌月末"
	PaymentTermsEndOfMonthAfterNext = "翌々月末"
	PaymentTermsWithin30Days        = "30日以内"
	PaymentTermsSameDay             = "即日"
)

// DefaultSettings returns the built-in defaults used when no settings
// record exists or individual fields are unset.
func DefaultSettings() Settings {
	return Settings{
		TaxRate:           10,
		DefaultProfitRate: 20,
		DailyRate:         18000,
		EstimateValidDays: 30,
		PaymentTerms:      PaymentTermsEndOfNextMonth,
		AccountType:       "普通",
	}
}

// LoadSettings reads the settings record, falling back to the defaults for
// anything missing. It never fails; a broken settings store just means
// defaults.
func LoadSettings(app *pocketbase.PocketBase) Settings {
	s := DefaultSettings()

	records, err := app.FindRecordsByFilter("settings", "id != ''", "-created", 1, 0)
	if err != nil || len(records) == 0 {
		return s
	}
	r := records[0]

	if v := r.GetInt("tax_rate"); v != 0 {
		s.TaxRate = v
	}
	if v := r.GetInt("default_profit_rate"); v != 0 {
		s.DefaultProfitRate = v
	}
	if v := r.GetInt("daily_rate"); v != 0 {
		s.DailyRate = v
	}
	if v := r.GetInt("estimate_valid_days"); v != 0 {
		s.EstimateValidDays = v
	}
	if v := r.GetString("payment_terms"); v != "" {
		s.PaymentTerms = v
	}
	if v := r.GetString("account_type"); v != "" {
		s.AccountType = v
	}

	s.CompanyName = r.GetString("company_name")
	s.PostalCode = r.GetString("postal_code")
	s.Address = r.GetString("address")
	s.Phone = r.GetString("phone")
	s.Fax = r.GetString("fax")
	s.Email = r.GetString("email")
	s.InvoiceNumber = r.GetString("invoice_number")
	s.BankName = r.GetString("bank_name")
	s.BranchName = r.GetString("branch_name")
	s.AccountNumber = r.GetString("account_number")
	s.AccountHolder = r.GetString("account_holder")

	return s
}

// SaveSettings upserts the single settings record.
func SaveSettings(app *pocketbase.PocketBase, s Settings) error {
	var record *core.Record

	records, err := app.FindRecordsByFilter("settings", "id != ''", "-created", 1, 0)
	if err == nil && len(records) > 0 {
		record = records[0]
	} else {
		col, err := app.FindCollectionByNameOrId("settings")
		if err != nil {
			return fmt.Errorf("settings collection not found: %w", err)
		}
		record = core.NewRecord(col)
	}

	record.Set("tax_rate", s.TaxRate)
	record.Set("default_profit_rate", s.DefaultProfitRate)
	record.Set("daily_rate", s.DailyRate)
	record.Set("estimate_valid_days", s.EstimateValidDays)
	record.Set("payment_terms", s.PaymentTerms)
	record.Set("company_name", s.CompanyName)
	record.Set("postal_code", s.PostalCode)
	record.Set("address", s.Address)
	record.Set("phone", s.Phone)
	record.Set("fax", s.Fax)
	record.Set("email", s.Email)
	record.Set("invoice_number", s.InvoiceNumber)
	record.Set("bank_name", s.BankName)
	record.Set("branch_name", s.BranchName)
	record.Set("account_type", s.AccountType)
	record.Set("account_number", s.AccountNumber)
	record.Set("account_holder", s.AccountHolder)

	if err := app.Save(record); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// DueDateFor derives the invoice due date from the payment terms.
// 翌月末 is the last day of next month, 翌々月末 the last day of the month
// after next, 30日以内 thirty days out, 即日 the issue date itself.
// Unknown terms fall back to 翌月末.
func DueDateFor(paymentTerms string, issue time.Time) time.Time {
	y, m, _ := issue.Date()
	switch paymentTerms {
	case PaymentTermsSameDay:
		return issue
	case PaymentTermsWithin30Days:
		return issue.AddDate(0, 0, 30)
	case PaymentTermsEndOfMonthAfterNext:
		return time.Date(y, m+3, 0, 0, 0, 0, 0, issue.Location())
	default:
		return time.Date(y, m+2, 0, 0, 0, 0, 0, issue.Location())
	}
}
