package httptool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/pkg/tools"
)

const (
	ConnectionRefusedTag = "connection refused"

	HeaderContentType     = "Content-Type"
	HeaderContentTypeJSON = "application/json"
	HeaderAuthorization   = "Authorization"
)

type ResponseMsg struct {
	Message string `json:"message"`
}

type HTTPClient struct {
	sync.RWMutex
	hc         http.Client
	baseAddr   string
	header     http.Header
	clientName string
}

// NewHTTPClient 创建 HTTP 客户端，baseAddr 为完整的基础地址（含协议）
func NewHTTPClient(baseAddr, clientName string, timeout time.Duration, transport *http.Transport) *HTTPClient {
	client := &HTTPClient{
		baseAddr: strings.TrimSuffix(baseAddr, "/"),
		hc: http.Client{
			Timeout: timeout,
		},
		clientName: clientName,
	}
	if transport != nil {
		client.hc.Transport = transport
	}
	return client
}

func (hc *HTTPClient) SetHeader(key, value string) {
	hc.Lock()
	defer hc.Unlock()

	if hc.header == nil {
		hc.header = http.Header{}
	}

	hc.header.Set(key, value)
}

func (hc *HTTPClient) GetWithContext(ctx context.Context, url string) ([]byte, error) {
	return hc.fetchWithContext(ctx, http.MethodGet, url, nil)
}

func (hc *HTTPClient) GetParamsWithContext(ctx context.Context, url string, params map[string][]string) ([]byte, error) {
	if len(params) == 0 {
		return hc.fetchWithContext(ctx, http.MethodGet, url, nil)
	}
	var paramSlice []string
	for key, valSlice := range params {
		for _, val := range valSlice {
			paramSlice = append(paramSlice, key+"="+val)
		}
	}
	url = url + "?" + strings.Join(paramSlice, "&")
	return hc.fetchWithContext(ctx, http.MethodGet, url, nil)
}

func (hc *HTTPClient) PostJSONWithContext(ctx context.Context, url string, obj interface{}) ([]byte, error) {
	body, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return hc.fetchWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
}

func (hc *HTTPClient) fetchWithContext(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	targetURL := fmt.Sprintf("%v%v", hc.baseAddr, url)

	ok := config.GetInstance().GetBool(config.ClientsCommonRequestLog)
	now := time.Now()

	if ok && body != nil {
		b, _ := io.ReadAll(body)

		body = bytes.NewReader(b)
		log.Debugf("Sending %v request to %v", method, targetURL)
		log.Debugf("Body = %v", string(b))
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	hc.RLock()
	if hc.header != nil {
		req.Header = hc.header.Clone()
	}
	hc.RUnlock()
	if body != nil && req.Header.Get(HeaderContentType) == "" {
		req.Header.Set(HeaderContentType, HeaderContentTypeJSON)
	}

	resp, err := hc.hc.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), ConnectionRefusedTag) {
			return nil, fmt.Errorf("%s client: connection to %s refused", hc.clientName, req.Host)
		}
		return nil, errors.WithStack(err)
	}

	return hc.readResponse(resp, req, now)
}

func (hc *HTTPClient) readResponse(resp *http.Response, req *http.Request, startTime time.Time) ([]byte, error) {
	defer tools.ErrorWithPrintContext(resp.Body.Close, "close response body")
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var respStr string
	if len(bodyBytes) > 1024*100 {
		respStr = fmt.Sprintf("resp size: %v", len(bodyBytes))
	} else {
		respStr = string(bodyBytes)
	}

	ok := config.GetInstance().GetBool(config.ClientsCommonRequestLog)
	if ok {
		log.Debugf("Got response from %v %v, status code = %d, body = %v took = %v", req.Method, req.URL, resp.StatusCode, respStr, time.Since(startTime))
	}

	if time.Since(startTime) > 800*time.Millisecond {
		log.Infof("TimeConsuming: from %v %v, status code = %d, response body = %v took = %v\n", req.Method, req.URL, resp.StatusCode, respStr, time.Since(startTime))
	}

	if resp.StatusCode/100 != 2 {
		errMsg := fmt.Errorf("HTTP request to %v %v failed with status code %d response:%v", req.Method, req.URL, resp.StatusCode, string(bodyBytes))
		if string(bodyBytes) == "" {
			return bodyBytes, errMsg
		}
		var result = new(ResponseMsg)
		if err = json.Unmarshal(bodyBytes, result); err != nil {
			return bodyBytes, errMsg
		}
		return bodyBytes, fmt.Errorf("%s", result.Message)
	}
	return bodyBytes, nil
}
