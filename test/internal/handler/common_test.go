package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "test-secret"

var (
	InvalidJSON = `{"invalid": json}`
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// signTestToken 簽出帶 user_id claim 的測試 token
func signTestToken(userID int) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		return ""
	}
	return signed
}

// createAuthedJSONHTTPRequest 帶認證的 JSON 請求
func createAuthedJSONHTTPRequest(method, url string, data interface{}, userID int) *http.Request {
	req := createJSONHTTPRequest(method, url, data)
	if req != nil {
		req.Header.Set("Authorization", "Bearer "+signTestToken(userID))
	}
	return req
}
