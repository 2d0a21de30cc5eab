package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // Error message matching
	"time"     // Fallback timestamp

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// MaxUploadSize is the largest proof document accepted
const MaxUploadSize = 10 << 20

// multipartOverhead leaves room for boundaries and headers around the file
const multipartOverhead = 1 << 20

// UploadProofResponse is returned after a proof document is pinned
type UploadProofResponse struct {
	IpfsHash   string `json:"ipfsHash"`   // Content identifier
	FileName   string `json:"fileName"`   // Original file name
	Size       int64  `json:"size"`       // Bytes received
	Timestamp  string `json:"timestamp"`  // Pin time reported by the pinning service
	GatewayURL string `json:"gatewayUrl"` // Public link to the document
}

// UploadProofHandler pins the multipart file field "photo" to IPFS
func UploadProofHandler(pinner ProofPinner) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Cap the request body
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+multipartOverhead)
		header, err := c.FormFile("photo") // Read the uploaded file
		if err != nil {
			// A body over the cap is reported as too large, anything else as missing
			if isBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large", "details": "maximum size is 10MB"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		// Check the file size limit
		if header.Size > MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large", "details": "maximum size is 10MB"})
			return
		}
		file, err := header.Open() // Open the stored part
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		defer file.Close()

		result, err := pinner.PinFile(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"file_name": header.Filename, // Uploaded file name
				"size":      header.Size,     // File size
				"error":     err.Error(),     // Error message
			}).Error("Proof upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "details": err.Error()})
			return
		}

		timestamp := result.Timestamp // Prefer the pinning service's clock
		if timestamp == "" {
			timestamp = time.Now().UTC().Format(time.RFC3339)
		}
		c.JSON(http.StatusOK, UploadProofResponse{
			IpfsHash:   result.IpfsHash,                    // Content identifier
			FileName:   header.Filename,                    // Original file name
			Size:       header.Size,                        // Bytes received
			Timestamp:  timestamp,                          // Pin time
			GatewayURL: pinner.GatewayURL(result.IpfsHash), // Public link
		})
	}
}

// isBodyTooLarge reports whether err came from the MaxBytesReader cap
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
