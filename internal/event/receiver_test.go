package event

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/cache"
)

func TestHandleReportEvent(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedCached int
	}{
		{
			name:           "submitted report is cached",
			method:         http.MethodPost,
			body:           `{"report_date":"2024-06-01","status":"SUBMITTED","agent_id":"a1","outbound_dials":30}`,
			expectedStatus: http.StatusOK,
			expectedCached: 1,
		},
		{
			name:           "auto-submitted report is cached",
			method:         http.MethodPost,
			body:           `{"report_date":"2024-06-01","status":"AUTO_SUBMITTED","agent_id":"a2"}`,
			expectedStatus: http.StatusOK,
			expectedCached: 1,
		},
		{
			name:           "draft is accepted but not cached",
			method:         http.MethodPost,
			body:           `{"report_date":"2024-06-01","status":"DRAFT","agent_id":"a1"}`,
			expectedStatus: http.StatusAccepted,
			expectedCached: 0,
		},
		{
			name:           "invalid JSON",
			method:         http.MethodPost,
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedCached: 0,
		},
		{
			name:           "unparseable date",
			method:         http.MethodPost,
			body:           `{"report_date":"June 1st","status":"SUBMITTED","agent_id":"a1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCached: 0,
		},
		{
			name:           "wrong method",
			method:         http.MethodGet,
			body:           "",
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCached: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := cache.NewReportCache()
			buffer := cache.NewSubmissionBuffer()
			receiver := NewReceiver(reports, buffer, zerolog.Nop())

			req := httptest.NewRequest(tt.method, "/internal/report-event", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			receiver.HandleReportEvent(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if reports.Size() != tt.expectedCached {
				t.Errorf("expected %d cached, got %d", tt.expectedCached, reports.Size())
			}
			if buffer.Size() != tt.expectedCached {
				t.Errorf("expected %d buffered, got %d", tt.expectedCached, buffer.Size())
			}
		})
	}
}
