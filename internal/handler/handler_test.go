package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minshop/checkout/internal/checkout"
	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/user"
	"github.com/minshop/checkout/internal/gateway"
	"github.com/minshop/checkout/internal/handler"
	"github.com/minshop/checkout/internal/storage/memory"
)

type stubGateway struct {
	result gateway.Result
}

func (g stubGateway) Authorize(_ context.Context, amount int64, _ string) (gateway.Result, error) {
	res := g.result
	if res.Success {
		res.ApprovedAmount = amount
	}
	return res, nil
}

type env struct {
	srv *httptest.Server

	user   *user.User
	item   *item.Item
	coupon *coupon.UserCoupon
}

// newEnv seeds a user, an item (price 10000, stock 10), and a fixed 1000
// coupon issued to the user, and serves the API over httptest.
func newEnv(t *testing.T, gw gateway.Gateway) *env {
	t.Helper()
	ctx := context.Background()
	db := memory.New()

	u, err := user.New("buyer@example.com", "Buyer")
	require.NoError(t, err)
	require.NoError(t, db.Users().Create(ctx, u))

	it, err := item.New("Keyboard", 10_000, 10)
	require.NoError(t, err)
	require.NoError(t, db.Items().Create(ctx, it))

	c, err := coupon.Fixed("WELCOME", 1_000)
	require.NoError(t, err)
	require.NoError(t, db.Coupons().Create(ctx, c))
	uc := coupon.Issue(u.ID, c.ID)
	require.NoError(t, db.UserCoupons().Create(ctx, uc))

	h := handler.New(checkout.NewService(db, gw))
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	return &env{srv: srv, user: u, item: it, coupon: uc}
}

func (e *env) post(t *testing.T, body string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Post(e.srv.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return res, decodeBody(t, res)
}

func (e *env) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Get(e.srv.URL + path)
	require.NoError(t, err)
	return res, decodeBody(t, res)
}

// decodeBody parses a response object into a generic map. Nested objects
// become nested maps; number fields come back as int64.
func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()

	d := jx.Decode(res.Body, 512)
	obj, err := decodeObj(d)
	require.NoError(t, err)
	return obj
}

func decodeObj(d *jx.Decoder) (map[string]any, error) {
	obj := make(map[string]any)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch d.Next() {
		case jx.Number:
			v, err := d.Int64()
			obj[key] = v
			return err
		case jx.String:
			v, err := d.Str()
			obj[key] = v
			return err
		case jx.Object:
			v, err := decodeObj(d)
			obj[key] = v
			return err
		default:
			return d.Skip()
		}
	})
	return obj, err
}

func TestCreateOrder(t *testing.T) {
	e := newEnv(t, stubGateway{result: gateway.Approved("VT-1", 0)})

	res, body := e.post(t, `{"userId":1,"itemId":2,"quantity":1,"userCouponId":4,"payAmount":9000}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	orderID, ok := body["orderId"].(int64)
	require.True(t, ok)
	require.NotZero(t, orderID)

	res, body = e.get(t, "/orders/"+strconv.FormatInt(orderID, 10))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "PAID", body["status"])
	assert.Equal(t, int64(10_000), body["totalPrice"])

	payment, ok := body["payment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(9_000), payment["amount"])
	assert.Equal(t, "SUCCESS", payment["status"])
	assert.Equal(t, "VT-1", payment["transactionId"])
}

func TestCreateOrder_WithoutCoupon(t *testing.T) {
	e := newEnv(t, stubGateway{result: gateway.Approved("VT-1", 0)})

	res, body := e.post(t, `{"userId":1,"itemId":2,"quantity":2,"payAmount":20000}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.NotZero(t, body["orderId"])
}

func TestCreateOrder_NullCoupon(t *testing.T) {
	e := newEnv(t, stubGateway{result: gateway.Approved("VT-1", 0)})

	res, _ := e.post(t, `{"userId":1,"itemId":2,"quantity":1,"userCouponId":null,"payAmount":10000}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestCreateOrder_Errors(t *testing.T) {
	tests := []struct {
		name       string
		gw         gateway.Gateway
		body       string
		wantStatus int
	}{
		{
			name:       "malformed JSON",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero quantity",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":1,"itemId":2,"quantity":0,"payAmount":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown user",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":999,"itemId":2,"quantity":1,"payAmount":10000}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown item",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":1,"itemId":999,"quantity":1,"payAmount":10000}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown coupon",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":1,"itemId":2,"quantity":1,"userCouponId":999,"payAmount":9000}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "tampered pay amount",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":1,"itemId":2,"quantity":1,"payAmount":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient stock",
			gw:         stubGateway{result: gateway.Approved("VT-1", 0)},
			body:       `{"userId":1,"itemId":2,"quantity":11,"payAmount":110000}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "gateway decline",
			gw:         stubGateway{result: gateway.Declined("card declined")},
			body:       `{"userId":1,"itemId":2,"quantity":1,"payAmount":10000}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.gw)
			res, body := e.post(t, tt.body)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, int64(tt.wantStatus), body["code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestGetOrder_Errors(t *testing.T) {
	e := newEnv(t, stubGateway{result: gateway.Approved("VT-1", 0)})

	res, _ := e.get(t, "/orders/999")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = e.get(t, "/orders/abc")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
