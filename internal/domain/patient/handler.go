package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carebridge/carebridge/internal/platform/auth"
	"github.com/carebridge/carebridge/pkg/apperr"
	"github.com/carebridge/carebridge/pkg/pagination"
)

// Handler adapts HTTP to the patient service. Role gates follow the route
// table; per-patient access is decided by the evaluator inside the service.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := auth.RequireRole("super_admin", "hospital", "nurse")

	api.POST("/patients", h.CreatePatient, auth.RequireRole("super_admin", "hospital"))
	api.GET("/patients", h.ListPatients, staff)
	api.GET("/patients/:id", h.GetPatient)

	api.GET("/patients/:id/status", h.GetStatus)
	api.PUT("/patients/:id/status", h.UpdateStatus, staff)

	api.GET("/patients/:id/assignments", h.GetAssignments, staff)
	api.POST("/patients/:id/caregivers", h.AssignCaregiver, staff)
	api.DELETE("/patients/:id/caregivers", h.UnassignCaregiver, staff)
	api.POST("/patients/:id/family-members", h.AssignFamilyMember, staff)
	api.DELETE("/patients/:id/family-members", h.UnassignFamilyMember, staff)
	api.POST("/patients/:id/nurses", h.AssignNurse, staff)
	api.DELETE("/patients/:id/nurses", h.UnassignNurse, staff)

	api.PUT("/caregivers/:id/nurse", h.LinkCaregiverToNurse, staff)
	api.DELETE("/caregivers/:id/nurse", h.UnlinkCaregiverFromNurse, staff)
}

func patientID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func actor(c echo.Context) (auth.Actor, error) {
	a, err := auth.ActorFromContext(c.Request().Context())
	if err != nil {
		return auth.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return a, nil
}

type createPatientRequest struct {
	HospitalID    uuid.UUID  `json:"hospital_id"`
	PatientUserID *uuid.UUID `json:"patient_user_id,omitempty"`
	Status        string     `json:"status,omitempty"`
}

func (h *Handler) CreatePatient(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := &Patient{
		HospitalID:    req.HospitalID,
		PatientUserID: req.PatientUserID,
		Status:        req.Status,
	}
	created, err := h.svc.Create(c.Request().Context(), p, a)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetPatient(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), a, id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	hospitalID := a.HospitalID
	if v := c.QueryParam("hospital_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital_id")
		}
		hospitalID = parsed
	}
	if hospitalID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospital_id is required")
	}

	items, total, err := h.svc.ListByHospital(c.Request().Context(), hospitalID, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	res, err := h.svc.GetStatus(c.Request().Context(), id, a)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var upd StatusUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.UpdateStatus(c.Request().Context(), id, upd, a)
	if err != nil {
		if status := apperr.HTTPStatus(err); status != http.StatusInternalServerError {
			return echo.NewHTTPError(status, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAssignments(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	res, err := h.svc.GetAssignments(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

type assignCaregiverRequest struct {
	CaregiverID uuid.UUID `json:"caregiver_id"`
	IsPrimary   bool      `json:"is_primary"`
}

func (h *Handler) AssignCaregiver(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var req assignCaregiverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CaregiverID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "caregiver_id is required")
	}
	p, err := h.svc.AssignCaregiver(c.Request().Context(), id, req.CaregiverID, req.IsPrimary, a)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UnassignCaregiver(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	caregiverID, err := uuid.Parse(c.QueryParam("caregiver_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid caregiver_id")
	}
	kind := c.QueryParam("type")
	p, err := h.svc.UnassignCaregiver(c.Request().Context(), id, caregiverID, kind, a)
	if err != nil {
		if status := apperr.HTTPStatus(err); status != http.StatusInternalServerError {
			return echo.NewHTTPError(status, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

type assignFamilyMemberRequest struct {
	FamilyMemberID          uuid.UUID `json:"family_member_id"`
	Relationship            string    `json:"relationship"`
	CanMakeAppointments     bool      `json:"can_make_appointments"`
	CanAccessMedicalRecords bool      `json:"can_access_medical_records"`
}

func (h *Handler) AssignFamilyMember(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var req assignFamilyMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.FamilyMemberID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "family_member_id is required")
	}
	p, err := h.svc.AssignFamilyMember(c.Request().Context(), id, req.FamilyMemberID,
		req.Relationship, req.CanMakeAppointments, req.CanAccessMedicalRecords, a)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UnassignFamilyMember(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	familyMemberID, err := uuid.Parse(c.QueryParam("family_member_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid family_member_id")
	}
	p, err := h.svc.UnassignFamilyMember(c.Request().Context(), id, familyMemberID, a)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

type assignNurseRequest struct {
	NurseID uuid.UUID `json:"nurse_id"`
}

func (h *Handler) AssignNurse(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var req assignNurseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.NurseID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nurse_id is required")
	}
	p, err := h.svc.AssignNurse(c.Request().Context(), id, req.NurseID, a)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UnassignNurse(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := patientID(c)
	if err != nil {
		return err
	}
	nurseID, err := uuid.Parse(c.QueryParam("nurse_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid nurse_id")
	}
	p, err := h.svc.UnassignNurse(c.Request().Context(), id, nurseID, a)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

type linkNurseRequest struct {
	NurseID uuid.UUID `json:"nurse_id"`
}

func (h *Handler) LinkCaregiverToNurse(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	caregiverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req linkNurseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.NurseID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nurse_id is required")
	}
	if err := h.svc.LinkCaregiverToNurse(c.Request().Context(), caregiverID, req.NurseID, a); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "linked"})
}

func (h *Handler) UnlinkCaregiverFromNurse(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	caregiverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.UnlinkCaregiverFromNurse(c.Request().Context(), caregiverID, a); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "unlinked"})
}
