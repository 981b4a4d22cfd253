// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"
	"testing"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/ledger"
	"github.com/cielu/go-solana/validatorcore"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, common.Address) {
	t.Helper()
	ledgerStore := ledger.NewMemStore()
	accountStore := accounts.NewOverlayStore()
	orch := validatorcore.NewOrchestrator(ledgerStore, nil)

	addr := common.Address{1, 2, 3}
	if err := accountStore.CreateAccount(addr, &accounts.Account{
		Owner:    common.SystemProgramID,
		Lamports: 895000,
	}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := accountStore.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}

	return New(ledgerStore, accountStore, orch, nil), addr
}

func TestDispatcher_GetBalanceEnvelope(t *testing.T) {
	d, addr := newTestDispatcher(t)

	reqBody, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "getBalance",
		"params":  []string{addr.String()},
		"id":      7,
	})

	respBody := d.HandleRequest(reqBody)

	var resp map[string]interface{}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp["jsonrpc"] != "2.0" {
		t.Fatalf("jsonrpc = %v, want 2.0", resp["jsonrpc"])
	}
	idNum, ok := resp["id"].(float64)
	if !ok || idNum != 7 {
		t.Fatalf("id = %v, want numeric 7", resp["id"])
	}
	result, ok := resp["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("result missing or not an object: %v", resp)
	}
	if _, ok := result["context"].(map[string]interface{}); !ok {
		t.Fatalf("result.context missing: %v", result)
	}
	value, ok := result["value"].(float64)
	if !ok || value != 895000 {
		t.Fatalf("result.value = %v, want 895000", result["value"])
	}
}

func TestDispatcher_ParseErrorOnEmptyRequest(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := parseResponse(t, d.HandleRequest([]byte("")))
	assertErrorCode(t, resp, CodeParseError)
	if resp["id"] != nil {
		t.Fatalf("id should be null on parse error, got %v", resp["id"])
	}
}

func TestDispatcher_InvalidRequestOnMissingID(t *testing.T) {
	d, _ := newTestDispatcher(t)
	reqBody, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "getSlot",
	})
	resp := parseResponse(t, d.HandleRequest(reqBody))
	assertErrorCode(t, resp, CodeInvalidRequest)
	if resp["id"] != nil {
		t.Fatalf("id should be null/empty on invalid request, got %v", resp["id"])
	}
}

func TestDispatcher_MethodNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t)
	reqBody, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "notARealMethod",
		"id":      1,
	})
	resp := parseResponse(t, d.HandleRequest(reqBody))
	assertErrorCode(t, resp, CodeMethodNotFound)
}

func TestDispatcher_InvalidParams(t *testing.T) {
	d, _ := newTestDispatcher(t)
	reqBody, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "getBalance",
		"params":  []string{},
		"id":      1,
	})
	resp := parseResponse(t, d.HandleRequest(reqBody))
	assertErrorCode(t, resp, CodeInvalidParams)
}

func TestDispatcher_SubscribeUnsubscribeLifecycle(t *testing.T) {
	d, _ := newTestDispatcher(t)

	subReq, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0", "method": "slotSubscribe", "id": 1,
	})
	subResp := parseResponse(t, d.HandleRequest(subReq))
	subID, ok := subResp["result"].(float64)
	if !ok || subID == 0 {
		t.Fatalf("slotSubscribe result = %v, want non-zero numeric id", subResp["result"])
	}

	unsubReq, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0", "method": "slotUnsubscribe", "params": []float64{subID}, "id": 2,
	})
	unsubResp := parseResponse(t, d.HandleRequest(unsubReq))
	if ok, _ := unsubResp["result"].(bool); !ok {
		t.Fatalf("slotUnsubscribe result = %v, want true", unsubResp["result"])
	}

	// Idempotent: a second unsubscribe of the same id still returns true.
	secondResp := parseResponse(t, d.HandleRequest(unsubReq))
	if ok, _ := secondResp["result"].(bool); !ok {
		t.Fatalf("second slotUnsubscribe result = %v, want true", secondResp["result"])
	}
}

func parseResponse(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return resp
}

func assertErrorCode(t *testing.T, resp map[string]interface{}, want int) {
	t.Helper()
	errObj, ok := resp["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %v", resp)
	}
	code, ok := errObj["code"].(float64)
	if !ok || int(code) != want {
		t.Fatalf("error.code = %v, want %d", errObj["code"], want)
	}
}
