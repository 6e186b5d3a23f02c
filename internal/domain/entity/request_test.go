package entity

import "testing"

func TestPaymentRequest_RecomputeTotal(t *testing.T) {
	req := &PaymentRequest{Amount: 100, ExchangeRate: 83.5}
	req.RecomputeTotal()

	if req.TotalAmountINR != 8350 {
		t.Errorf("TotalAmountINR = %v, want 8350", req.TotalAmountINR)
	}
}

func TestPaymentRequest_DisbursableAmount(t *testing.T) {
	req := &PaymentRequest{Amount: 100, ExchangeRate: 10}
	req.RecomputeTotal()

	if got := req.DisbursableAmount(); got != 1000 {
		t.Errorf("DisbursableAmount without net payable = %v, want 1000", got)
	}

	net := 920.0
	req.NetPayableAmount = &net
	if got := req.DisbursableAmount(); got != 920 {
		t.Errorf("DisbursableAmount with net payable = %v, want 920", got)
	}
}
