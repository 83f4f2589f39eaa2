package services

import (
	"fmt"
	"os"
	"sync"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/gigbridge/gigwork-app/models"
)

// PaymentInitiator hands a pending invoice to an external payment flow and
// returns an opaque reference. Settlement, callbacks and retries live with
// the gateway, not here; the invoice only records that processing started.
type PaymentInitiator interface {
	InitiatePayment(invoice *models.Invoice) (string, error)
}

// MidtransInitiator creates a Snap transaction for the invoice amount.
type MidtransInitiator struct {
	client snap.Client
}

var (
	midtransInitiator *MidtransInitiator
	midtransOnce      sync.Once
)

// GetMidtransInitiator returns the singleton gateway client, configured from
// the environment.
func GetMidtransInitiator() *MidtransInitiator {
	midtransOnce.Do(func() {
		serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
		env := midtrans.Sandbox
		if os.Getenv("MIDTRANS_ENV") == "production" {
			env = midtrans.Production
		}

		initiator := &MidtransInitiator{}
		initiator.client.New(serverKey, env)
		midtransInitiator = initiator
	})
	return midtransInitiator
}

func (m *MidtransInitiator) InitiatePayment(invoice *models.Invoice) (string, error) {
	orderID := fmt.Sprintf("INV-%d-%d", invoice.ID, invoice.SubmittedAt.Unix())
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID: orderID,
			// Gateway amounts are integral in the smallest unit.
			GrossAmt: int64(invoice.TotalAmount),
		},
	}

	resp, err := m.client.CreateTransaction(req)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway transaction: %s", err.Error())
	}
	return resp.Token, nil
}

// NoopInitiator satisfies PaymentInitiator without leaving the process; used
// in tests and in deployments that settle invoices out of band.
type NoopInitiator struct{}

func (NoopInitiator) InitiatePayment(invoice *models.Invoice) (string, error) {
	return fmt.Sprintf("manual-%d", invoice.ID), nil
}
