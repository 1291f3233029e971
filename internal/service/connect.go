package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// InsightsServiceName is the fully-qualified name of the insights service.
const InsightsServiceName = "insights.v1.InsightsService"

// Procedure paths served by NewInsightsServiceHandler.
const (
	GetInsightsProcedure        = "/insights.v1.InsightsService/GetInsights"
	GetLatestInsightsProcedure  = "/insights.v1.InsightsService/GetLatestInsights"
	GetPredictionProcedure      = "/insights.v1.InsightsService/GetPrediction"
	ImportTransactionsProcedure = "/insights.v1.InsightsService/ImportTransactions"
	GetRefreshJobProcedure      = "/insights.v1.InsightsService/GetRefreshJob"
	ListRefreshJobsProcedure    = "/insights.v1.InsightsService/ListRefreshJobs"
)

// JSONCodec serialises plain Go request and response structs. It replaces
// connect's built-in "json" codec, which only accepts protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// InsightsServiceHandler is implemented by InsightsService.
type InsightsServiceHandler interface {
	GetInsights(context.Context, *connect.Request[GetInsightsRequest]) (*connect.Response[GetInsightsResponse], error)
	GetLatestInsights(context.Context, *connect.Request[GetLatestInsightsRequest]) (*connect.Response[GetInsightsResponse], error)
	GetPrediction(context.Context, *connect.Request[GetPredictionRequest]) (*connect.Response[GetPredictionResponse], error)
	ImportTransactions(context.Context, *connect.Request[ImportTransactionsRequest]) (*connect.Response[ImportTransactionsResponse], error)
	GetRefreshJob(context.Context, *connect.Request[GetRefreshJobRequest]) (*connect.Response[GetRefreshJobResponse], error)
	ListRefreshJobs(context.Context, *connect.Request[ListRefreshJobsRequest]) (*connect.Response[ListRefreshJobsResponse], error)
}

// NewInsightsServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewInsightsServiceHandler(svc InsightsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	getInsights := connect.NewUnaryHandler(GetInsightsProcedure, svc.GetInsights, opts...)
	getLatestInsights := connect.NewUnaryHandler(GetLatestInsightsProcedure, svc.GetLatestInsights, opts...)
	getPrediction := connect.NewUnaryHandler(GetPredictionProcedure, svc.GetPrediction, opts...)
	importTransactions := connect.NewUnaryHandler(ImportTransactionsProcedure, svc.ImportTransactions, opts...)
	getRefreshJob := connect.NewUnaryHandler(GetRefreshJobProcedure, svc.GetRefreshJob, opts...)
	listRefreshJobs := connect.NewUnaryHandler(ListRefreshJobsProcedure, svc.ListRefreshJobs, opts...)

	return "/" + InsightsServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GetInsightsProcedure:
			getInsights.ServeHTTP(w, r)
		case GetLatestInsightsProcedure:
			getLatestInsights.ServeHTTP(w, r)
		case GetPredictionProcedure:
			getPrediction.ServeHTTP(w, r)
		case ImportTransactionsProcedure:
			importTransactions.ServeHTTP(w, r)
		case GetRefreshJobProcedure:
			getRefreshJob.ServeHTTP(w, r)
		case ListRefreshJobsProcedure:
			listRefreshJobs.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// InsightsServiceClient calls a remote InsightsService.
type InsightsServiceClient struct {
	getInsights        *connect.Client[GetInsightsRequest, GetInsightsResponse]
	getLatestInsights  *connect.Client[GetLatestInsightsRequest, GetInsightsResponse]
	getPrediction      *connect.Client[GetPredictionRequest, GetPredictionResponse]
	importTransactions *connect.Client[ImportTransactionsRequest, ImportTransactionsResponse]
	getRefreshJob      *connect.Client[GetRefreshJobRequest, GetRefreshJobResponse]
	listRefreshJobs    *connect.Client[ListRefreshJobsRequest, ListRefreshJobsResponse]
}

// NewInsightsServiceClient constructs a client for the service at baseURL
// (e.g. http://localhost:8111).
func NewInsightsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *InsightsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &InsightsServiceClient{
		getInsights:        connect.NewClient[GetInsightsRequest, GetInsightsResponse](httpClient, baseURL+GetInsightsProcedure, opts...),
		getLatestInsights:  connect.NewClient[GetLatestInsightsRequest, GetInsightsResponse](httpClient, baseURL+GetLatestInsightsProcedure, opts...),
		getPrediction:      connect.NewClient[GetPredictionRequest, GetPredictionResponse](httpClient, baseURL+GetPredictionProcedure, opts...),
		importTransactions: connect.NewClient[ImportTransactionsRequest, ImportTransactionsResponse](httpClient, baseURL+ImportTransactionsProcedure, opts...),
		getRefreshJob:      connect.NewClient[GetRefreshJobRequest, GetRefreshJobResponse](httpClient, baseURL+GetRefreshJobProcedure, opts...),
		listRefreshJobs:    connect.NewClient[ListRefreshJobsRequest, ListRefreshJobsResponse](httpClient, baseURL+ListRefreshJobsProcedure, opts...),
	}
}

func (c *InsightsServiceClient) GetInsights(ctx context.Context, req *connect.Request[GetInsightsRequest]) (*connect.Response[GetInsightsResponse], error) {
	return c.getInsights.CallUnary(ctx, req)
}

func (c *InsightsServiceClient) GetLatestInsights(ctx context.Context, req *connect.Request[GetLatestInsightsRequest]) (*connect.Response[GetInsightsResponse], error) {
	return c.getLatestInsights.CallUnary(ctx, req)
}

func (c *InsightsServiceClient) GetPrediction(ctx context.Context, req *connect.Request[GetPredictionRequest]) (*connect.Response[GetPredictionResponse], error) {
	return c.getPrediction.CallUnary(ctx, req)
}

func (c *InsightsServiceClient) ImportTransactions(ctx context.Context, req *connect.Request[ImportTransactionsRequest]) (*connect.Response[ImportTransactionsResponse], error) {
	return c.importTransactions.CallUnary(ctx, req)
}

func (c *InsightsServiceClient) GetRefreshJob(ctx context.Context, req *connect.Request[GetRefreshJobRequest]) (*connect.Response[GetRefreshJobResponse], error) {
	return c.getRefreshJob.CallUnary(ctx, req)
}

func (c *InsightsServiceClient) ListRefreshJobs(ctx context.Context, req *connect.Request[ListRefreshJobsRequest]) (*connect.Response[ListRefreshJobsResponse], error) {
	return c.listRefreshJobs.CallUnary(ctx, req)
}

var _ InsightsServiceHandler = (*InsightsServiceClient)(nil)
