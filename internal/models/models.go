package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an employee account. Password and OTP fields never leave the server.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	Department        string             `bson:"department" json:"department"`
	Role              string             `bson:"role" json:"role"`
	VerifyOtp         string             `bson:"verifyOtp" json:"-"`
	VerifyOtpExpireAt int64              `bson:"verifyOtpExpireAt" json:"-"`
	IsAccountVerified bool               `bson:"isAccountVerified" json:"isAccountVerified"`
	ResetOtp          string             `bson:"resetOtp" json:"-"`
	ResetOtpExpireAt  int64              `bson:"resetOtpExpireAt" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Assignee    primitive.ObjectID `bson:"assignee" json:"assignee"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	Priority    string             `bson:"priority" json:"priority"`
	Status      string             `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Document struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Type       string             `bson:"type" json:"type"`
	Size       string             `bson:"size" json:"size"`
	UploadedBy string             `bson:"uploadedBy" json:"uploadedBy"`
	UploadDate time.Time          `bson:"uploadDate" json:"uploadDate"`
	Category   string             `bson:"category" json:"category"`
	Path       string             `bson:"path" json:"path"`
}

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	Icon      string             `bson:"icon" json:"icon"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AssigneeInfo is the reduced user projection attached to task listings.
type AssigneeInfo struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Department string             `bson:"department" json:"department"`
	Role       string             `bson:"role,omitempty" json:"role,omitempty"`
}

var Departments = []string{"Finance", "Marketing", "Human Resources", "Operations", "IT"}

var Roles = []string{
	"Intern", "Junior Staff", "Senior Staff", "Supervisor", "Manager",
	"Team Lead", "Director", "Executive", "Administrator", "Consultant",
}

func ValidDepartment(department string) bool {
	for _, d := range Departments {
		if d == department {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case "Low", "Medium", "High":
		return true
	default:
		return false
	}
}

func ValidTaskStatus(status string) bool {
	switch status {
	case "Todo", "In Progress", "Completed":
		return true
	default:
		return false
	}
}

func ValidNotificationType(t string) bool {
	switch t {
	case "info", "success", "warning", "error":
		return true
	default:
		return false
	}
}
