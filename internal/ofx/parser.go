// Package ofx reads OFX/QFX bank and credit card statements into transactions
// that can be imported into a ledger.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Transaction is one statement line. Amount is signed: negative amounts left
// the account.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal
	FITID       string
	Description string
	AccountID   string
	Type        string
	Source      string
	CreditCard  bool
}

// Kind classifies the transaction by the sign of its amount.
func (t Transaction) Kind() model.EntryKind {
	if t.Amount.IsNegative() {
		return model.EntryKindExpense
	}
	return model.EntryKindIncome
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be INFO, WARN or ERROR
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare opening tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX document. source names the file in the returned
// transactions.
func (p *Parser) ParseFile(ctx context.Context, source string, reader io.Reader) ([]Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file %s: %w", source, err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file %s: %w", source, err)
	}

	var (
		transactions       []Transaction
		bankStmts, ccStmts int
	)

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		for _, tx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, p.convertTransaction(tx, string(stmt.BankAcctFrom.AcctID), source, false))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		for _, tx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, p.convertTransaction(tx, string(stmt.CCAcctFrom.AcctID), source, true))
		}
	}

	slog.Info("Parsed OFX file",
		"file", source,
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertTransaction(tx ofxgo.Transaction, accountID, source string, creditCard bool) Transaction {
	// Amount embeds big.Rat; two places is the precision every statement uses.
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		amount = decimal.Zero
	}

	posted := tx.DtPosted.Time
	return Transaction{
		Date:        time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Amount:      amount,
		FITID:       string(tx.FiTID),
		Description: p.extractDescription(tx),
		AccountID:   accountID,
		Type:        tx.TrnType.String(),
		Source:      source,
		CreditCard:  creditCard,
	}
}

// extractDescription picks the cleanest merchant text from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " date stamps
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Mapping decides where imported transactions land.
type Mapping struct {
	IncomeCategory  string
	ExpenseCategory string
	// PaymentMethod applies to bank statement lines; credit card statement
	// lines are always credit card payments.
	PaymentMethod model.PaymentMethod
}

// ImportItems converts transactions into ledger import items. Money in
// becomes income, money out becomes an expense of the absolute amount.
func ImportItems(txs []Transaction, m Mapping) []ledger.ImportItem {
	method := m.PaymentMethod
	if method == "" {
		method = model.PaymentDebitCard
	}

	items := make([]ledger.ImportItem, 0, len(txs))
	for _, tx := range txs {
		item := ledger.ImportItem{
			Kind:   tx.Kind(),
			Source: tx.Source + "#" + tx.FITID,
			EntryInput: ledger.EntryInput{
				Date:          tx.Date,
				Amount:        tx.Amount.Abs(),
				Description:   tx.Description,
				PaymentMethod: method,
				CategoryName:  m.IncomeCategory,
			},
		}
		if item.Kind == model.EntryKindExpense {
			item.CategoryName = m.ExpenseCategory
		}
		if tx.CreditCard {
			item.PaymentMethod = model.PaymentCreditCard
		}
		items = append(items, item)
	}
	return items
}
