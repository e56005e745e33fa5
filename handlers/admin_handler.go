package handlers

import (
	"strconv"
	"strings"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/gofiber/fiber/v2"
)

func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := strings.TrimSpace(c.Query("search"))
	offset := (page - 1) * limit

	var users []models.User
	var totalUsers int64

	query := database.DB.Model(&models.User{})
	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	query.Count(&totalUsers)
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": totalUsers,
		"page":  page,
		"limit": limit,
	})
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}

	return c.JSON(fiber.Map{"message": "User status updated", "is_active": user.IsActive})
}

func AdminGetPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var payments []models.Payment
	var total int64

	query := database.DB.Model(&models.Payment{}).Preload("User")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"payments": payments, "total": total, "page": page, "limit": limit})
}

func AdminListAffiliates(c *fiber.Ctx) error {
	var affiliates []models.Affiliate
	if err := database.DB.Preload("User").Order("total_earnings desc").Find(&affiliates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(affiliates)
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalStudents int64
	database.DB.Model(&models.User{}).Where("role = ?", "student").Count(&totalStudents)

	var paidStudents int64
	database.DB.Model(&models.User{}).Where("has_access = ?", true).Count(&paidStudents)

	var totalRevenue int64
	database.DB.Model(&models.Payment{}).Where("status = ?", "succeeded").
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&totalRevenue)

	var activeAffiliates int64
	database.DB.Model(&models.Affiliate{}).Where("is_active = ?", true).Count(&activeAffiliates)

	var pendingPayouts int64
	database.DB.Model(&models.Payout{}).Where("status = ?", models.PayoutStatusRequested).Count(&pendingPayouts)

	var upcomingSessions int64
	database.DB.Model(&models.LiveSession{}).Where("status = ?", "scheduled").Count(&upcomingSessions)

	return c.JSON(fiber.Map{
		"total_students":      totalStudents,
		"paid_students":       paidStudents,
		"total_revenue_cents": totalRevenue,
		"active_affiliates":   activeAffiliates,
		"pending_payouts":     pendingPayouts,
		"upcoming_sessions":   upcomingSessions,
	})
}
