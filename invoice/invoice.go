package invoice

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"time"

	"ayurkart/db"
	"ayurkart/globals"
	"ayurkart/models"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// qrPayload returns orderID|total|timestamp|signature so the QR on a printed
// invoice can be checked against tampering.
func qrPayload(order models.Order) string {
	data := fmt.Sprintf("%s|%.2f|%d", order.OrderID, order.TotalAmount, order.CreatedAt.Unix())
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintInvoice streams a PDF invoice for the caller's own order.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{
		"orderid": ps.ByName("id"),
		"userId":  userID,
	}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("PrintInvoice lookup error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	qrPNG, err := qrcode.Encode(qrPayload(order), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tax Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Billed to: %s", order.Billing.Name))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("%s, %s, %s - %s", order.Billing.Address, order.Billing.City, order.Billing.State, order.Billing.Pincode))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(90, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	line := func(label string, amount float64) {
		pdf.CellFormat(145, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
	}
	line("Subtotal", order.Subtotal)
	if order.DiscountAmount > 0 {
		line("Discount ("+order.CouponCode+")", -order.DiscountAmount)
	}
	line("Shipping", order.ShippingFee)
	if order.TaxAmount > 0 {
		line("Tax", order.TaxAmount)
	}
	if order.GiftCardApplied > 0 {
		line("Gift card", -order.GiftCardApplied)
	}
	pdf.SetFont("Arial", "B", 12)
	line("Total", order.TotalAmount)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 155, 20, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
