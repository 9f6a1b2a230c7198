package addressControllers

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

const maxActiveAddresses = 3

var (
	errQuotaReached    = errors.New("active address limit reached")
	errAddressNotFound = errors.New("address not found")
)

type AddressInput struct {
	Label   string  `json:"label"`
	Line1   string  `json:"line1" binding:"required"`
	Line2   string  `json:"line2"`
	City    string  `json:"city" binding:"required"`
	State   string  `json:"state"`
	Pincode string  `json:"pincode" binding:"required,len=6,numeric"`
	Phone   string  `json:"phone"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Default bool    `json:"is_default"`
}

func respondAddressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errQuotaReached):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You can keep at most 3 active addresses"})
	case errors.Is(err, errAddressNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Address not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
	}
}

// POST /addresses
// The first active address always becomes the default.
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var address models.Address
		err := db.Transaction(func(tx *gorm.DB) error {
			var active int64
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_active = ?", userID, true).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Count(&active).Error; err != nil {
				return err
			}
			if active >= maxActiveAddresses {
				return errQuotaReached
			}

			address = models.Address{
				UserID:    userID,
				Label:     input.Label,
				Line1:     input.Line1,
				Line2:     input.Line2,
				City:      input.City,
				State:     input.State,
				Pincode:   input.Pincode,
				Phone:     input.Phone,
				Lat:       input.Lat,
				Lng:       input.Lng,
				IsDefault: input.Default || active == 0,
				IsActive:  true,
			}
			if address.IsDefault {
				if err := clearDefault(tx, userID, 0); err != nil {
					return err
				}
			}
			return tx.Create(&address).Error
		})
		if err != nil {
			respondAddressError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": address})
	}
}

// GET /addresses
func GetAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var addresses []models.Address
		if err := db.Where("user_id = ? AND is_active = ?", userID, true).
			Order("is_default DESC, created_at DESC").
			Find(&addresses).Error; err != nil {
			respondAddressError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": addresses})
	}
}

// PUT /addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var input struct {
			Label   *string  `json:"label"`
			Line1   *string  `json:"line1"`
			Line2   *string  `json:"line2"`
			City    *string  `json:"city"`
			State   *string  `json:"state"`
			Pincode *string  `json:"pincode"`
			Phone   *string  `json:"phone"`
			Lat     *float64 `json:"lat"`
			Lng     *float64 `json:"lng"`
			Default *bool    `json:"is_default"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		if input.Pincode != nil && len(*input.Pincode) != 6 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Pincode must be 6 digits"})
			return
		}

		var address models.Address
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", c.Param("id"), userID, true).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&address).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errAddressNotFound
				}
				return err
			}

			updates := map[string]interface{}{}
			if input.Label != nil {
				updates["label"] = *input.Label
			}
			if input.Line1 != nil {
				updates["line1"] = *input.Line1
			}
			if input.Line2 != nil {
				updates["line2"] = *input.Line2
			}
			if input.City != nil {
				updates["city"] = *input.City
			}
			if input.State != nil {
				updates["state"] = *input.State
			}
			if input.Pincode != nil {
				updates["pincode"] = *input.Pincode
			}
			if input.Phone != nil {
				updates["phone"] = *input.Phone
			}
			if input.Lat != nil {
				updates["lat"] = *input.Lat
			}
			if input.Lng != nil {
				updates["lng"] = *input.Lng
			}
			// Unsetting the default is not allowed directly; pick another
			// address as default instead.
			if input.Default != nil && *input.Default && !address.IsDefault {
				if err := clearDefault(tx, userID, address.ID); err != nil {
					return err
				}
				updates["is_default"] = true
			}

			if len(updates) == 0 {
				return nil
			}
			return tx.Model(&address).Updates(updates).Error
		})
		if err != nil {
			respondAddressError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": address})
	}
}

// PUT /addresses/:id/default
func SetDefaultAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var address models.Address
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", c.Param("id"), userID, true).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&address).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errAddressNotFound
				}
				return err
			}
			if address.IsDefault {
				return nil
			}
			if err := clearDefault(tx, userID, address.ID); err != nil {
				return err
			}
			address.IsDefault = true
			return tx.Save(&address).Error
		})
		if err != nil {
			respondAddressError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": address})
	}
}

// DELETE /addresses/:id
// Deactivates the address; the default, when removed, moves to the most
// recent remaining address.
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var address models.Address
			if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", c.Param("id"), userID, true).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&address).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errAddressNotFound
				}
				return err
			}

			if err := tx.Model(&address).Updates(map[string]interface{}{
				"is_active":  false,
				"is_default": false,
			}).Error; err != nil {
				return err
			}

			if address.IsDefault {
				var remaining []models.Address
				if err := tx.Where("user_id = ? AND is_active = ?", userID, true).
					Order("created_at DESC").
					Find(&remaining).Error; err != nil {
					return err
				}
				if next := PickNextDefault(remaining); next != nil {
					return tx.Model(next).Update("is_default", true).Error
				}
			}
			return nil
		})
		if err != nil {
			respondAddressError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address deleted"})
	}
}

// PickNextDefault chooses which address inherits the default flag, favoring
// the most recently created one. Callers pass addresses ordered newest first.
func PickNextDefault(addresses []models.Address) *models.Address {
	for i := range addresses {
		if addresses[i].IsActive {
			return &addresses[i]
		}
	}
	return nil
}

func clearDefault(tx *gorm.DB, userID, exceptID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND id != ?", userID, exceptID).
		Update("is_default", false).Error
}

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// GET /addresses/nearby?lat=..&lng=..&radius_km=..
// The user's active addresses within the radius, nearest first.
func GetNearbyAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "lat and lng are required"})
			return
		}
		radius, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "5"), 64)
		if err != nil || radius <= 0 {
			radius = 5
		}

		var addresses []models.Address
		if err := db.Where("user_id = ? AND is_active = ?", userID, true).Find(&addresses).Error; err != nil {
			respondAddressError(c, err)
			return
		}

		type nearby struct {
			models.Address
			DistanceKm float64 `json:"distance_km"`
		}
		results := []nearby{}
		for _, a := range addresses {
			if a.Lat == 0 && a.Lng == 0 {
				continue
			}
			d := HaversineKm(lat, lng, a.Lat, a.Lng)
			if d <= radius {
				results = append(results, nearby{Address: a, DistanceKm: math.Round(d*100) / 100})
			}
		}
		sort.Slice(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})

		c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
	}
}
