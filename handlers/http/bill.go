package httpHandler

import (
	"io"
	"net/http"
	"strings"

	"splitmate-server/middleware"
	"splitmate-server/usecases"

	"github.com/gin-gonic/gin"
)

type BillHandler struct {
	useCase *usecases.BillingUseCase
}

func NewBillHandler(useCase *usecases.BillingUseCase) *BillHandler {
	return &BillHandler{useCase: useCase}
}

type billRequest struct {
	HouseID    string `json:"houseId" binding:"required"`
	ChosenDate string `json:"chosenDate" binding:"required"`
}

// GetBill handles POST /api/bills: one aggregation query returning the
// house bill and the caller's tenant bill for the chosen period.
func (h *BillHandler) GetBill(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "houseId and chosenDate are required"})
		return
	}

	bill, err := h.useCase.GetBill(middleware.CallerID(c), req.HouseID, req.ChosenDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Pay handles POST /api/bills/pay
func (h *BillHandler) Pay(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "houseId and chosenDate are required"})
		return
	}

	status, err := h.useCase.Pay(middleware.CallerID(c), req.HouseID, req.ChosenDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Upload handles POST /api/bills/upload (multipart: houseId, totalAmount,
// chosenDate, pdf).
func (h *BillHandler) Upload(c *gin.Context) {
	houseID := c.PostForm("houseId")
	totalAmount := c.PostForm("totalAmount")
	chosenDate := c.PostForm("chosenDate")

	var fileName string
	var pdf []byte
	if fileHeader, err := c.FormFile("pdf"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read pdf file"})
			return
		}
		defer file.Close()
		pdf, err = io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read pdf file"})
			return
		}
		fileName = fileHeader.Filename
	}

	if err := h.useCase.UploadBill(houseID, totalAmount, chosenDate, fileName, pdf); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill uploaded successfully"})
}

// Download handles GET /api/bills/download/:houseId/:billingDate and streams
// the stored PDF.
func (h *BillHandler) Download(c *gin.Context) {
	doc, err := h.useCase.DownloadBill(c.Param("houseId"), c.Param("billingDate"))
	if err != nil {
		respondError(c, err)
		return
	}

	fileName := doc.FileName
	if fileName == "" {
		fileName = "bill_" + strings.ReplaceAll(doc.PeriodStart, ":", "_") + ".pdf"
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
