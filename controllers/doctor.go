package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/models"
	"github.com/docwell/docwell-backend/scheduler"
	"github.com/docwell/docwell-backend/utils"
)

type DoctorController struct {
	DB       *gorm.DB
	Uploader *utils.Uploader
	Now      func() time.Time
}

type doctorListing struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	ClinicName      string  `json:"clinic_name"`
	ClinicAddress   string  `json:"clinic_address"`
	City            string  `json:"city"`
	ConsultationFee float64 `json:"consultation_fee"`
	Experience      string  `json:"experience"`
	IsVerified      bool    `json:"is_verified"`
	ProfilePicture  string  `json:"profile_picture"`
}

func (dc *DoctorController) listing(user *models.User, profile *models.DoctorProfile) doctorListing {
	l := doctorListing{ID: user.ID, Name: user.Name}
	if profile != nil {
		l.Specialization = profile.Specialization
		l.ClinicName = profile.ClinicName
		l.ClinicAddress = profile.ClinicAddress
		l.City = profile.City
		l.ConsultationFee = profile.ConsultationFee
		l.IsVerified = profile.IsVerified
		l.ProfilePicture = profile.ProfilePicture
		if profile.PracticeStartDate != nil {
			l.Experience = scheduler.Experience(*profile.PracticeStartDate, dc.Now())
		}
	}
	return l
}

// ListDoctors returns verified doctors with their computed experience,
// optionally filtered by specialization or city.
func (dc *DoctorController) ListDoctors(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := dc.DB.Model(&models.DoctorProfile{}).Preload("User")
	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("specialization = ?", spec)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var count int64
	query.Count(&count)

	var profiles []models.DoctorProfile
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&profiles).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch doctors", "INTERNAL", "unexpected error")
	}

	doctors := make([]doctorListing, 0, len(profiles))
	for i := range profiles {
		doctors = append(doctors, dc.listing(&profiles[i].User, &profiles[i]))
	}
	return c.JSON(fiber.Map{
		"doctors": doctors,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (int(count) + limit - 1) / limit,
	})
}

// GetDoctor returns one doctor's public listing.
func (dc *DoctorController) GetDoctor(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if err := dc.DB.First(&user, id).Error; err != nil || user.Role != models.RoleDoctor {
		return utils.Fail(c, fiber.StatusNotFound, "Doctor not found", "DOCTOR_NOT_FOUND", "no doctor with this ID")
	}

	var profile models.DoctorProfile
	if err := dc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return c.JSON(dc.listing(&user, nil))
	}
	return c.JSON(dc.listing(&user, &profile))
}

type profileRequest struct {
	Specialization    *string  `json:"specialization"`
	ClinicName        *string  `json:"clinic_name"`
	ClinicAddress     *string  `json:"clinic_address"`
	City              *string  `json:"city"`
	ConsultationFee   *float64 `json:"consultation_fee"`
	PracticeStartDate *string  `json:"practice_start_date"`
	TimeZone          *string  `json:"time_zone"`
}

// UpdateProfile lets a doctor maintain their own practice details.
func (dc *DoctorController) UpdateProfile(c *fiber.Ctx) error {
	doctorID, _ := c.Locals("userID").(uint)

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Failed to parse request body", "BAD_REQUEST", err.Error())
	}

	var profile models.DoctorProfile
	if err := dc.DB.Where("user_id = ?", doctorID).First(&profile).Error; err != nil {
		profile = models.DoctorProfile{UserID: doctorID, TimeZone: "UTC"}
	}

	if req.Specialization != nil {
		profile.Specialization = *req.Specialization
	}
	if req.ClinicName != nil {
		profile.ClinicName = *req.ClinicName
	}
	if req.ClinicAddress != nil {
		profile.ClinicAddress = *req.ClinicAddress
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.PracticeStartDate != nil {
		started, err := time.Parse("2006-01-02", *req.PracticeStartDate)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid practice start date", "BAD_REQUEST",
				"practice_start_date must be YYYY-MM-DD")
		}
		if started.After(dc.Now()) {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid practice start date", "BAD_REQUEST",
				"practice_start_date cannot be in the future")
		}
		profile.PracticeStartDate = &started
	}
	if req.TimeZone != nil {
		if _, err := time.LoadLocation(*req.TimeZone); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid timezone", "BAD_REQUEST",
				"time_zone must be a valid IANA identifier")
		}
		profile.TimeZone = *req.TimeZone
	}

	if err := dc.DB.Save(&profile).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update profile", "INTERNAL", "unexpected error")
	}
	return c.JSON(profile)
}

// UploadProfilePicture stores a doctor's picture via Cloudinary and
// records the returned URL.
func (dc *DoctorController) UploadProfilePicture(c *fiber.Ctx) error {
	doctorID, _ := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Missing picture file", "BAD_REQUEST", "multipart field 'picture' is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Unreadable picture file", "BAD_REQUEST", err.Error())
	}
	defer file.Close()

	url, err := dc.Uploader.UploadProfilePicture(c.Context(), file, doctorID)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to upload picture", "INTERNAL", "unexpected error")
	}

	if err := dc.DB.Model(&models.DoctorProfile{}).
		Where("user_id = ?", doctorID).
		Update("profile_picture", url).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to save picture URL", "INTERNAL", "unexpected error")
	}
	return c.JSON(fiber.Map{"profile_picture": url})
}
