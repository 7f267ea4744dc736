package controllers

import (
	"donwatch/internal/providers"
	"donwatch/internal/wallet"
	"donwatch/internal/watch"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
)

// DonationController serves the two donation paths: watching a chain for a
// manual transfer and signing through the donor's wallet.
type DonationController struct {
	logger  providers.Logger
	watcher Watcher
	donor   Donor
}

func NewDonationController(logger providers.Logger, watcher Watcher, donor Donor) *DonationController {
	return &DonationController{
		logger:  logger,
		watcher: watcher,
		donor:   donor,
	}
}

func (dc *DonationController) StartWatch(w http.ResponseWriter, r *http.Request) {
	var req watch.StartRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	st, err := dc.watcher.Start(r.Context(), req)
	if err != nil {
		if st.ID != "" {
			writeError(w, err, &st)
			return
		}
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusAccepted, st)
}

func (dc *DonationController) WatchStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, err := dc.watcher.Status(q.Get("chain"), q.Get("asset"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type watchKey struct {
	Chain string `json:"chain"`
	Asset string `json:"asset"`
}

func (dc *DonationController) CancelWatch(w http.ResponseWriter, r *http.Request) {
	var key watchKey
	if err := decodeBody(w, r, &key); err != nil {
		writeError(w, err, nil)
		return
	}
	st, err := dc.watcher.Cancel(key.Chain, key.Asset)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type donateBody struct {
	ChainID string          `json:"chainId"`
	Token   string          `json:"token"`
	Amount  decimal.Decimal `json:"amount"`
	Donor   string          `json:"donor"`
}

// Donate blocks until the wallet transaction confirms or fails.
func (dc *DonationController) Donate(w http.ResponseWriter, r *http.Request) {
	var body donateBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err, nil)
		return
	}

	res, err := dc.donor.Donate(r.Context(), wallet.DonateRequest{
		ChainID: body.ChainID,
		Token:   body.Token,
		Amount:  body.Amount,
		Donor:   body.Donor,
	})
	if err != nil {
		var txErr *wallet.TxError
		if errors.As(err, &txErr) {
			dc.logger.Warnf(providers.TypeWallet, "Donate failed at %s step: %s", txErr.Step, txErr.Err)
		}
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
