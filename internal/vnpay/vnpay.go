// Package vnpay はVNPayゲートウェイとの署名付きURLの生成と
// コールバック検証を行う。パラメータの並び順とエンコードは
// ハッシュ互換のためのワイヤ契約であり、変更してはいけない。
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	version   = "2.1.0"
	command   = "pay"
	locale    = "vn"
	currCode  = "VND"
	orderType = "other"
)

// 署名が一致しない（改ざんの疑い）。業務エラーとは区別して扱う。
var ErrInvalidSignature = errors.New("vnpay: invalid secure hash")

// コールバックに必須パラメータが無い。
var ErrMissingParam = errors.New("vnpay: missing required param")

type Config struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
}

type Client struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg, now: time.Now}
}

// NewWithClock はテスト用に時刻を注入する。
func NewWithClock(cfg Config, now func() time.Time) *Client {
	return &Client{cfg: cfg, now: now}
}

// BuildPaymentURL は注文の支払いリダイレクトURLを作る。
// amount はVND。ゲートウェイには100倍して渡す。
func (c *Client) BuildPaymentURL(orderID int64, amount int64, bankCode, ipAddr string) string {
	txnRef := strconv.FormatInt(orderID, 10)

	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Locale":     locale,
		"vnp_CurrCode":   currCode,
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  "Thanh toan don hang #" + txnRef,
		"vnp_OrderType":  orderType,
		"vnp_Amount":     strconv.FormatInt(amount*100, 10),
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     ipAddr,
		"vnp_CreateDate": c.now().Format("20060102150405"),
	}
	if bankCode != "" {
		params["vnp_BankCode"] = bankCode
	}

	signData := canonicalize(params)
	secureHash := c.sign(signData)

	return c.cfg.BaseURL + "?" + signData + "&vnp_SecureHash=" + secureHash
}

// コールバック検証の結果。
type CallbackResult struct {
	OrderID      int64
	ResponseCode string
	Success      bool

	//VND（÷100済み）
	Amount int64
}

// VerifyCallback はゲートウェイからのreturnパラメータを検証する。
// 受信ハッシュを取り除いて同じ正規化・署名をやり直し、
// 一致しなければ ErrInvalidSignature（fail closed、注文は触らない）。
func (c *Client) VerifyCallback(query url.Values) (CallbackResult, error) {
	received := query.Get("vnp_SecureHash")
	if received == "" {
		return CallbackResult{}, ErrInvalidSignature
	}

	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}
	delete(params, "vnp_SecureHash")
	delete(params, "vnp_SecureHashType")

	expected := c.sign(canonicalize(params))
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return CallbackResult{}, ErrInvalidSignature
	}

	txnRef := params["vnp_TxnRef"]
	if txnRef == "" {
		return CallbackResult{}, ErrMissingParam
	}
	orderID, err := strconv.ParseInt(txnRef, 10, 64)
	if err != nil {
		return CallbackResult{}, ErrMissingParam
	}

	rsp := params["vnp_ResponseCode"]

	var amount int64
	if raw := params["vnp_Amount"]; raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return CallbackResult{}, ErrMissingParam
		}
		//ゲートウェイは100倍単位で返す
		amount = v / 100
	}

	return CallbackResult{
		OrderID:      orderID,
		ResponseCode: rsp,
		Success:      rsp == "00",
		Amount:       amount,
	}, nil
}

func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalize はキーをエンコードして昇順に並べ、
// 値もエンコード（スペースは'+'）して k=v&... に組み立てる。
// ゲートウェイが同一の文字列を再構成するため、順序と
// エンコードはビット単位で再現可能でなければならない。
func canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, url.QueryEscape(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		raw, err := url.QueryUnescape(k)
		if err != nil {
			raw = k
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[raw]))
	}
	return b.String()
}
