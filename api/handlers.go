package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crystallum/matgateway/api/responses"
	"github.com/crystallum/matgateway/internal/materials"
	"github.com/crystallum/matgateway/internal/mpclient"
)

// Material IDs look like "mp-149".
var materialIDPattern = regexp.MustCompile(`^mp-\d+$`)

const missingKeyDetail = "Materials Project API key is not configured. " +
	"Set MP_API_KEY or MATERIALS_API_KEY in environment variables"

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"status":  "running",
		"version": Version,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"api_key_configured": s.mp.Configured(),
	})
}

// openSession opens a scoped upstream session for this request, writing a
// 500 when the client cannot connect (missing API key included).
func (s *Server) openSession(c *gin.Context) (mpclient.Session, bool) {
	sess, err := s.mp.Open(c.Request.Context())
	if err != nil {
		if errors.Is(err, mpclient.ErrMissingAPIKey) {
			responses.InternalServerError(c, missingKeyDetail)
		} else {
			responses.InternalServerError(c, err.Error())
		}
		return nil, false
	}
	return sess, true
}

// materialID validates the :id path parameter, writing a 400 on malformed
// identifiers.
func materialID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !materialIDPattern.MatchString(id) {
		responses.BadRequest(c, "Invalid material ID format. Material IDs should start with 'mp-'")
		return "", false
	}
	return id, true
}

func (s *Server) handleGetMaterial(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.SummarySearch(c.Request.Context(), mpclient.SummaryQuery{
		MaterialIDs: []string{id},
		Fields:      materials.SummaryFields,
	})
	if err != nil {
		s.logger.Error("summary lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching material data: %s", err))
		return
	}
	if len(docs) == 0 {
		responses.NotFound(c, fmt.Sprintf("Material %s not found", id))
		return
	}

	responses.Success(c, materials.Summary(docs[0]))
}

func (s *Server) handleSearchByFormula(c *gin.Context) {
	formula := c.Param("formula")
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.SummarySearch(c.Request.Context(), mpclient.SummaryQuery{
		Formula: formula,
		Fields:  materials.SearchFields,
	})
	if err != nil {
		s.logger.Error("formula search failed", zap.String("formula", formula), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error searching materials: %s", err))
		return
	}

	results := []map[string]any{}
	for _, doc := range docs {
		results = append(results, materials.SearchRow(doc))
	}
	responses.Success(c, results)
}

func (s *Server) handleGetBandstructure(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	doc, err := sess.Bandstructure(c.Request.Context(), id)
	if err != nil {
		// Many materials simply have no band structure on record; the
		// frontend expects an empty payload, not an error.
		if errors.Is(err, mpclient.ErrNoBandStructure) || isNoBandStructure(err) {
			responses.Success(c, emptyBandstructure(id))
			return
		}
		s.logger.Error("band structure lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching band structure: %s", err))
		return
	}

	responses.Success(c, materials.Bandstructure(doc, id))
}

func isNoBandStructure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no") && strings.Contains(msg, "band structure")
}

func emptyBandstructure(id string) map[string]any {
	return map[string]any{
		"material_id": id,
		"is_metal":    nil,
		"band_gap":    nil,
	}
}

func (s *Server) handleGetMagnetism(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.Magnetism(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("magnetism lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching magnetic properties: %s", err))
		return
	}
	if len(docs) == 0 {
		responses.NotFound(c, fmt.Sprintf("Magnetic properties not found for material %s", id))
		return
	}

	responses.Success(c, materials.Magnetism(docs[0]))
}

func (s *Server) handleGetElasticity(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.Elasticity(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("elasticity lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching elastic constants: %s", err))
		return
	}
	if len(docs) == 0 {
		responses.NotFound(c, fmt.Sprintf("Elastic constants not found for material %s", id))
		return
	}

	responses.Success(c, materials.Elasticity(docs[0]))
}

func (s *Server) handleGetEOS(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.EOS(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("eos lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching equation of state: %s", err))
		return
	}
	if len(docs) == 0 {
		responses.NotFound(c, fmt.Sprintf("Equation of state not found for material %s", id))
		return
	}

	responses.Success(c, materials.EOS(docs[0]))
}

func (s *Server) handleGetXAS(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.XAS(c.Request.Context(), id)
	if err != nil {
		// Spectra are spotty upstream; treat a failed search like an
		// empty one.
		s.logger.Warn("xas lookup failed", zap.String("material_id", id), zap.Error(err))
		docs = nil
	}

	results := []map[string]any{}
	for _, doc := range docs {
		results = append(results, materials.XASRow(doc, id))
	}
	responses.Success(c, results)
}

func (s *Server) handleGetSurfaceProperties(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.SurfaceProperties(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("surface properties lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching surface properties: %s", err))
		return
	}
	if len(docs) == 0 {
		responses.NotFound(c, fmt.Sprintf("Surface properties not found for material %s", id))
		return
	}

	results := []map[string]any{}
	for _, doc := range docs {
		results = append(results, materials.SurfaceRow(doc, id))
	}
	responses.Success(c, results)
}

func (s *Server) handleGetSimilarity(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			responses.BadRequest(c, "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.Similarity(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("similarity lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching similar materials: %s", err))
		return
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}
	results := []map[string]any{}
	for _, doc := range docs {
		if row := materials.SimilarityRow(doc); row != nil {
			results = append(results, row)
		}
	}
	responses.Success(c, results)
}

func (s *Server) handleGetGrainBoundaries(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.GrainBoundaries(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("grain boundary lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching grain boundary data: %s", err))
		return
	}
	if len(docs) == 0 {
		responses.NotFound(c, fmt.Sprintf("Grain boundary data not found for material %s", id))
		return
	}

	results := []map[string]any{}
	for _, doc := range docs {
		results = append(results, materials.GrainBoundaryRow(doc, id))
	}
	responses.Success(c, results)
}

func (s *Server) handleGetSubstrates(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	docs, err := sess.Substrates(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("substrate lookup failed", zap.String("material_id", id), zap.Error(err))
		responses.InternalServerError(c, fmt.Sprintf("Error fetching substrates: %s", err))
		return
	}

	results := []map[string]any{}
	for _, doc := range docs {
		results = append(results, materials.SubstrateRow(doc, id))
	}
	responses.Success(c, results)
}

func (s *Server) handleGetAlloys(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	sess, ok := s.openSession(c)
	if !ok {
		return
	}
	defer sess.Close()

	// The alloys collection is not available on every upstream
	// deployment; failures degrade to an empty result.
	docs, err := sess.Alloys(c.Request.Context(), id)
	if err != nil {
		s.logger.Warn("alloy lookup failed", zap.String("material_id", id), zap.Error(err))
		docs = nil
	}

	results := []map[string]any{}
	for _, doc := range docs {
		if row := materials.AlloyRow(doc); row != nil {
			results = append(results, row)
		}
	}
	responses.Success(c, results)
}
