package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/db"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/labels"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/scan"
	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

type APIHandler struct {
	dbStore    *db.PostgresStore
	scanner    *scan.Scanner
	labelStore *labels.Store
	wsHub      *Hub
}

// SetupRouter builds the gin engine with CORS, auth, rate limiting, and the
// scan API. dbStore may be nil; persistence endpoints then report 503.
func SetupRouter(dbStore *db.PostgresStore, scanner *scan.Scanner, labelStore *labels.Store, wsHub *Hub) *gin.Engine {
	r := gin.Default()

	// CORS, configurable via ALLOWED_ORIGINS env var (comma separated).
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{dbStore: dbStore, scanner: scanner, labelStore: labelStore, wsHub: wsHub}

	// Scans hit the upstream RPC node, so they are rate limited harder than
	// read-only endpoints.
	scanLimiter := NewScanRateLimiter()

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware())
	{
		api.POST("/scan", scanLimiter.Middleware(), handler.handleScan)
		api.GET("/report/:id", handler.handleGetReport)
		api.GET("/scans", handler.handleRecentScans)
		api.GET("/labels/:address", handler.handleLookupLabel)
		api.GET("/health", handler.handleHealth)
		api.GET("/stream", wsHub.Subscribe)
	}

	return r
}

type scanRequest struct {
	Target     string `json:"target" binding:"required"`
	TargetType string `json:"targetType"`
	TxLimit    int    `json:"txLimit"`
}

func (h *APIHandler) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target is required"})
		return
	}

	targetType := models.TargetType(req.TargetType)
	switch targetType {
	case "":
		targetType = models.TargetAccount
	case models.TargetAccount, models.TargetTransaction, models.TargetProgram:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetType must be account, transaction, or program"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	report, err := h.scanner.Scan(ctx, req.Target, targetType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	scanID := ""
	if h.dbStore != nil {
		id, err := h.dbStore.SaveReport(ctx, report)
		if err != nil {
			log.Printf("[api] failed to persist report for %s: %v", req.Target, err)
		} else {
			scanID = id
		}
	}

	h.broadcastReport(scanID, report)

	c.JSON(http.StatusOK, gin.H{
		"scanId": scanID,
		"report": report,
	})
}

func (h *APIHandler) handleGetReport(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scan history persistence is not configured"})
		return
	}
	report, err := h.dbStore.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *APIHandler) handleRecentScans(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scan history persistence is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	scans, err := h.dbStore.RecentScans(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

func (h *APIHandler) handleLookupLabel(c *gin.Context) {
	address := c.Param("address")
	label, ok := h.labelStore.Lookup(address)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no label for address", "address": address})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address, "label": label})
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"version":     models.ReportVersion,
		"persistence": h.dbStore != nil,
		"knownLabels": h.labelStore.Len(),
	})
}

// streamPayload is the WebSocket message emitted for every completed scan.
type streamPayload struct {
	Event  string        `json:"event"`
	ScanID string        `json:"scanId,omitempty"`
	Report models.Report `json:"report"`
}

func (h *APIHandler) broadcastReport(scanID string, report models.Report) {
	if h.wsHub == nil {
		return
	}
	payload, err := json.Marshal(streamPayload{Event: "scan.completed", ScanID: scanID, Report: report})
	if err != nil {
		log.Printf("[api] failed to marshal stream payload: %v", err)
		return
	}
	h.wsHub.Broadcast(payload)
}
