package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/market"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/service"
	"github.com/libao/libao-backend/internal/testutil"
)

func TestScanDividends(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	marchEx := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	julyEx := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("proposes shares held on the ex-date, skipping recorded dividends", func(t *testing.T) {
		svc, env := newPortfolioService(t)

		state := testutil.NewState().WithCategory("G倉", "TW", 50).Build()
		state.Categories[0].Assets = []model.Asset{
			{ID: "a1", Symbol: "2330", Name: "台積電", Shares: 200, AvgCost: 500},
		}
		state.Transactions = []model.Transaction{
			{ID: "t1", Symbol: "2330", CategoryName: "G倉", Type: model.TxBuy, Shares: 100,
				Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
			{ID: "t2", Symbol: "2330", CategoryName: "G倉", Type: model.TxBuy, Shares: 100,
				Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
			// The March dividend is already in the ledger.
			{ID: "t3", Symbol: "2330", CategoryName: "G倉", Type: model.TxDividend, Shares: 100,
				Date: marchEx, Amount: 300},
		}
		if _, err := env.PortfolioRepo.Save("alice", state); err != nil {
			t.Fatalf("seed: %v", err)
		}

		server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
			"2330.TW": {
				Currency: "TWD",
				Price:    505,
				Dividends: map[int64]float64{
					marchEx.Unix(): 3,
					julyEx.Unix():  3,
				},
			},
		})
		client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)
		dividends := service.NewDividendService(env.PortfolioRepo, svc, client)

		proposals, err := dividends.ScanDividends(context.Background(), "alice", model.RoleMember, since)
		if err != nil {
			t.Fatalf("ScanDividends() error = %v", err)
		}
		if len(proposals) != 1 {
			t.Fatalf("Expected 1 proposal, got %d: %+v", len(proposals), proposals)
		}

		p := proposals[0]
		if !p.Date.Equal(julyEx) {
			t.Errorf("Expected the July ex-date, got %v", p.Date)
		}
		if p.Shares != 200 {
			t.Errorf("Expected 200 shares held on the ex-date, got %v", p.Shares)
		}
		if p.GrossAmount != 600 {
			t.Errorf("Expected gross 600, got %v", p.GrossAmount)
		}
		if p.IsMartingale {
			t.Error("Expected a personal proposal")
		}
	})

	t.Run("converts US dividends at the portfolio rate", func(t *testing.T) {
		svc, env := newPortfolioService(t)

		state := testutil.NewState().WithCategory("美股倉", "US", 30).Build()
		state.Categories[0].Assets = []model.Asset{
			{ID: "a1", Symbol: "AAPL", Name: "Apple", Shares: 10, AvgCost: 190},
		}
		state.Transactions = []model.Transaction{
			{ID: "t1", Symbol: "AAPL", CategoryName: "美股倉", Type: model.TxBuy, Shares: 10,
				Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		}
		if _, err := env.PortfolioRepo.Save("alice", state); err != nil {
			t.Fatalf("seed: %v", err)
		}

		server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
			"AAPL": {
				Currency:  "USD",
				Price:     190,
				Dividends: map[int64]float64{marchEx.Unix(): 1},
			},
		})
		client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)
		dividends := service.NewDividendService(env.PortfolioRepo, svc, client)

		proposals, err := dividends.ScanDividends(context.Background(), "alice", model.RoleMember, since)
		if err != nil {
			t.Fatalf("ScanDividends() error = %v", err)
		}
		if len(proposals) != 1 {
			t.Fatalf("Expected 1 proposal, got %d", len(proposals))
		}
		if proposals[0].GrossAmount != 320 {
			t.Errorf("Expected gross 10 * 1 * 32 = 320 TWD, got %v", proposals[0].GrossAmount)
		}
	})

	t.Run("martingale positions are scanned only for member and above", func(t *testing.T) {
		svc, env := newPortfolioService(t)

		state := testutil.NewState().WithMartingaleCategory("馬丁倉", "TW", 100).Build()
		state.Martingale[0].Assets = []model.Asset{
			{ID: "a1", Symbol: "2330", Shares: 50, AvgCost: 500},
		}
		martingale := true
		state.Transactions = []model.Transaction{
			{ID: "t1", Symbol: "2330", CategoryName: "馬丁倉", Type: model.TxBuy, Shares: 50,
				Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), IsMartingale: &martingale},
		}
		if _, err := env.PortfolioRepo.Save("alice", state); err != nil {
			t.Fatalf("seed: %v", err)
		}

		server := testutil.NewChartServer(t, map[string]testutil.ChartStub{
			"2330.TW": {
				Currency:  "TWD",
				Price:     505,
				Dividends: map[int64]float64{marchEx.Unix(): 3},
			},
		})
		client := market.NewClient(5 * time.Second).WithBaseURL(server.URL)
		dividends := service.NewDividendService(env.PortfolioRepo, svc, client)

		asViewer, err := dividends.ScanDividends(context.Background(), "alice", model.RoleViewer, since)
		if err != nil {
			t.Fatalf("ScanDividends() error = %v", err)
		}
		if len(asViewer) != 0 {
			t.Errorf("Expected no proposals for viewer, got %d", len(asViewer))
		}

		asMember, err := dividends.ScanDividends(context.Background(), "alice", model.RoleMember, since)
		if err != nil {
			t.Fatalf("ScanDividends() error = %v", err)
		}
		if len(asMember) != 1 || !asMember[0].IsMartingale {
			t.Errorf("Expected one martingale proposal for member, got %+v", asMember)
		}
	})
}

func TestConfirmDividend(t *testing.T) {
	t.Run("records a dividend transaction", func(t *testing.T) {
		svc, env := newPortfolioService(t)

		state := testutil.NewState().WithCategory("G倉", "TW", 50).Build()
		state.Categories[0].Assets = []model.Asset{
			{ID: "a1", Symbol: "2330", Name: "台積電", Shares: 200, AvgCost: 500},
		}
		if _, err := env.PortfolioRepo.Save("alice", state); err != nil {
			t.Fatalf("seed: %v", err)
		}

		dividends := service.NewDividendService(env.PortfolioRepo, svc, market.NewClient(time.Second))

		proposal := model.DividendProposal{
			Symbol:       "2330",
			Name:         "台積電",
			CategoryName: "G倉",
			Date:         time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			RatePerShare: 3,
			Shares:       200,
			GrossAmount:  600,
		}

		saved, tx, err := dividends.ConfirmDividend("alice", model.RoleMember, proposal, 10)
		if err != nil {
			t.Fatalf("ConfirmDividend() error = %v", err)
		}
		if tx.Type != model.TxDividend {
			t.Errorf("Expected DIVIDEND transaction, got %q", tx.Type)
		}
		if tx.RealizedPnL != 590 {
			t.Errorf("Expected realized 600 - 10 = 590, got %v", tx.RealizedPnL)
		}
		if tx.AssetID != "a1" {
			t.Errorf("Expected the held asset's id, got %q", tx.AssetID)
		}
		if len(saved.Transactions) != 1 {
			t.Errorf("Expected 1 persisted transaction, got %d", len(saved.Transactions))
		}
	})

	t.Run("martingale dividend requires admin", func(t *testing.T) {
		svc, env := newPortfolioService(t)

		state := testutil.NewState().WithMartingaleCategory("馬丁倉", "TW", 100).Build()
		state.Martingale[0].Assets = []model.Asset{
			{ID: "a1", Symbol: "2330", Shares: 50, AvgCost: 500},
		}
		if _, err := env.PortfolioRepo.Save("alice", state); err != nil {
			t.Fatalf("seed: %v", err)
		}

		dividends := service.NewDividendService(env.PortfolioRepo, svc, market.NewClient(time.Second))

		proposal := model.DividendProposal{
			Symbol:       "2330",
			CategoryName: "馬丁倉",
			Date:         time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			RatePerShare: 3,
			Shares:       50,
			GrossAmount:  150,
			IsMartingale: true,
		}

		_, _, err := dividends.ConfirmDividend("alice", model.RoleMember, proposal, 0)
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("member: expected ErrForbidden, got %v", err)
		}

		if _, _, err := dividends.ConfirmDividend("alice", model.RoleAdmin, proposal, 0); err != nil {
			t.Errorf("admin: unexpected error %v", err)
		}
	})
}
