package gateway

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/polymarket/go-order-utils/pkg/builder"
	"github.com/polymarket/go-order-utils/pkg/model"
	"go.uber.org/zap"

	"github.com/mselser95/arbcore/pkg/types"
)

const clobBaseURL = "https://clob.polymarket.com"

// LiveConfig holds the credentials and signing material a live gateway
// needs.
type LiveConfig struct {
	APIKey        string
	Secret        string
	Passphrase    string
	PrivateKey    string
	Address       string
	ProxyAddress  string
	SignatureType int
	TickSize      float64
	Logger        *zap.Logger
}

// LiveGateway places real orders against the Polymarket CLOB, signing
// each with EIP-712 via go-order-utils and authenticating requests with
// an HMAC-SHA256 signature over timestamp+method+path+body.
type LiveGateway struct {
	apiKey        string
	secret        string
	passphrase    string
	privateKey    *ecdsa.PrivateKey
	address       string
	proxyAddress  string
	signatureType model.SignatureType
	tickSize      float64
	orderBuilder  builder.ExchangeOrderBuilder
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewLiveGateway parses the private key, derives the EOA address if not
// supplied, and builds the Polygon-mainnet order builder.
func NewLiveGateway(cfg LiveConfig) (*LiveGateway, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	address := cfg.Address
	if address == "" {
		publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("derive public key from private key")
		}
		address = crypto.PubkeyToAddress(*publicKeyECDSA).Hex()
	}

	tickSize := cfg.TickSize
	if tickSize == 0 {
		tickSize = 0.01
	}

	return &LiveGateway{
		apiKey:        cfg.APIKey,
		secret:        cfg.Secret,
		passphrase:    cfg.Passphrase,
		privateKey:    privateKey,
		address:       address,
		proxyAddress:  cfg.ProxyAddress,
		signatureType: model.SignatureType(cfg.SignatureType),
		tickSize:      tickSize,
		orderBuilder:  builder.NewExchangeOrderBuilderImpl(big.NewInt(137), nil),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        cfg.Logger,
	}, nil
}

// PlaceLimitOrder builds, signs and submits a single limit order.
func (g *LiveGateway) PlaceLimitOrder(ctx context.Context, tokenID, side string, price, size float64) (string, error) {
	makerAddress := g.address
	if g.proxyAddress != "" {
		makerAddress = g.proxyAddress
	}

	sizePrecision, amountPrecision := roundingConfig(g.tickSize)
	takerTokens := roundAmount(size/price, sizePrecision)
	makerUSD := roundAmount(takerTokens*price, amountPrecision)

	orderSide := model.BUY
	if side == types.SideSell {
		orderSide = model.SELL
	}

	orderData := &model.OrderData{
		Maker:         makerAddress,
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenId:       tokenID,
		MakerAmount:   usdToRawAmount(makerUSD),
		TakerAmount:   usdToRawAmount(takerTokens),
		Side:          orderSide,
		FeeRateBps:    "0",
		Nonce:         "0",
		Signer:        g.address,
		Expiration:    "0",
		SignatureType: g.signatureType,
	}

	signed, err := g.orderBuilder.BuildSignedOrder(g.privateKey, orderData, model.CTFExchange)
	if err != nil {
		return "", fmt.Errorf("build signed order: %w", err)
	}

	reqBody := OrderSubmissionRequest{
		Order:     toOrderJSON(signed),
		Owner:     g.apiKey,
		OrderType: "GTC",
	}

	var resp OrderSubmissionResponse
	if err := g.signedRequest(ctx, http.MethodPost, "/order", reqBody, &resp); err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}
	if !resp.Success {
		return "", &types.OrderError{Code: resp.ErrorMsg, Message: resp.ErrorMsg, OrderID: resp.OrderID, Side: side}
	}

	return resp.OrderID, nil
}

// CancelOrder cancels a single live order by id.
func (g *LiveGateway) CancelOrder(ctx context.Context, orderID string) error {
	var resp CancelResponse
	if err := g.signedRequest(ctx, http.MethodDelete, "/order", CancelRequest{OrderID: orderID}, &resp); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	if !resp.Success {
		if reason, ok := resp.NotCanceled[orderID]; ok {
			return fmt.Errorf("cancel order %s: %s", orderID, reason)
		}
		return fmt.Errorf("cancel order %s: not confirmed canceled", orderID)
	}
	return nil
}

func (g *LiveGateway) signedRequest(ctx context.Context, method, path string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	payload := timestamp + method + path + string(reqBody)

	secretBytes, err := base64.URLEncoding.DecodeString(g.secret)
	if err != nil {
		return fmt.Errorf("decode secret: %w", err)
	}

	mac := hmac.New(sha256.New, secretBytes)
	mac.Write([]byte(payload))
	signature := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	httpReq, err := http.NewRequestWithContext(ctx, method, clobBaseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("POLY_API_KEY", g.apiKey)
	httpReq.Header.Set("POLY_SIGNATURE", signature)
	httpReq.Header.Set("POLY_TIMESTAMP", timestamp)
	httpReq.Header.Set("POLY_PASSPHRASE", g.passphrase)
	httpReq.Header.Set("POLY_ADDRESS", g.address)

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("gateway returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func toOrderJSON(order *model.SignedOrder) SignedOrderJSON {
	sideStr := types.SideBuy
	if order.Side.Uint64() == uint64(model.SELL) {
		sideStr = types.SideSell
	}

	return SignedOrderJSON{
		Salt:          order.Salt.Int64(),
		Maker:         order.Maker.Hex(),
		Signer:        order.Signer.Hex(),
		Taker:         order.Taker.Hex(),
		TokenID:       order.TokenId.String(),
		MakerAmount:   order.MakerAmount.String(),
		TakerAmount:   order.TakerAmount.String(),
		Side:          sideStr,
		Expiration:    order.Expiration.String(),
		Nonce:         order.Nonce.String(),
		FeeRateBps:    order.FeeRateBps.String(),
		SignatureType: int(order.SignatureType.Int64()),
		Signature:     "0x" + common.Bytes2Hex(order.Signature),
	}
}

// roundingConfig mirrors the CLOB's published rounding table.
func roundingConfig(tickSize float64) (sizePrecision, amountPrecision int) {
	switch tickSize {
	case 0.1:
		return 2, 3
	case 0.01:
		return 2, 4
	case 0.001:
		return 2, 5
	case 0.0001:
		return 2, 6
	default:
		return 2, 4
	}
}

func roundAmount(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(value*multiplier) / multiplier
}

func usdToRawAmount(usd float64) string {
	return fmt.Sprintf("%d", int64(usd*1_000_000))
}
