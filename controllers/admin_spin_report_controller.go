package controllers

import (
	"fmt"
	"time"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// AdminDownloadSpinReport exports the spin grant ledger as an Excel sheet for
// the given period, with per-row risk signals and a coin summary.
func (ctrl *Controller) AdminDownloadSpinReport(c *gin.Context) {
	utils.LogInfo("AdminDownloadSpinReport called")

	period := c.DefaultQuery("period", "day")
	utils.LogDebug("Generating spin report for period: %s", period)

	now := time.Now()
	var startDate time.Time
	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	case "month":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var grants []models.SpinHistory
	if err := ctrl.DB.Where("created_at >= ?", startDate).
		Order("created_at DESC").Find(&grants).Error; err != nil {
		utils.LogError("Failed to fetch spin history: %v", err)
		utils.InternalServerError(c, "Failed to fetch spin history", nil)
		return
	}
	utils.LogDebug("Retrieved %d spin grants for report", len(grants))

	var totalCoins int64
	users := map[uint]struct{}{}
	for _, g := range grants {
		totalCoins += g.RewardCoins
		users[g.UserID] = struct{}{}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Spin Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("NUTRIKART - Reward Spin Report")
	periodRow := sheet.AddRow()
	periodRow.AddCell().SetString("Period: " + period + " | From: " + startDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	headers := []string{"Grant ID", "User ID", "Coins", "Spin Type", "IP Address", "Risk Score", "Granted At"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, g := range grants {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(g.ID))
		row.AddCell().SetInt(int(g.UserID))
		row.AddCell().SetInt(int(g.RewardCoins))
		row.AddCell().SetString(g.SpinType)
		row.AddCell().SetString(g.IPAddress)
		row.AddCell().SetFloat(g.RiskScore)
		row.AddCell().SetString(g.CreatedAt.Format("2006-01-02 15:04"))
	}

	sheet.AddRow() // spacing
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Spins", fmt.Sprintf("%d", len(grants))},
		{"Total Coins Granted", fmt.Sprintf("%d", totalCoins)},
		{"Unique Users", fmt.Sprintf("%d", len(users))},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=spin_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
	utils.LogInfo("Spin report exported for period %s", period)
}
