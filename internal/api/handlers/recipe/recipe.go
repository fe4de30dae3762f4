package recipe

import (
	"math"
	"net/http"
	"strconv"

	recipeService "recipe-box/internal/core/recipe"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateRecipeRequest 建立食譜的請求體。
// 未列出的欄位（例如呼叫端自帶的 id 或 ratings）會被 JSON 綁定直接忽略。
type CreateRecipeRequest struct {
	Name        string                     `json:"name"`
	Ingredients []recipeService.Ingredient `json:"ingredients"`
	Steps       []string                   `json:"steps"`
}

// RateRecipeRequest 評分請求體。stars 以 float64 接收，
// 「必須是整數」的判斷交給服務層。
type RateRecipeRequest struct {
	Stars float64 `json:"stars"`
}

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// requestID 取出請求 ID，沒有時補一個
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// respondError 統一的錯誤回應：服務層的 CustomError 依其狀態碼輸出，
// 其餘一律視為未分類的內部錯誤回 500
func respondError(c *gin.Context, reqID string, err error) {
	if ce, ok := common.AsCustomError(err); ok {
		if ce.Status >= http.StatusInternalServerError {
			common.LogError("請求處理失敗",
				zap.Error(err),
				zap.String("request_id", reqID),
				zap.String("path", c.Request.URL.Path),
			)
		}
		c.JSON(ce.Status, common.ErrorResponse{
			Code:    ce.Code,
			Message: ce.Message,
		})
		return
	}

	common.LogError("未分類錯誤",
		zap.Error(err),
		zap.String("request_id", reqID),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "Unknown internal error",
	})
}

// HandleCreate POST /recipes
func (h *Handler) HandleCreate(c *gin.Context) {
	reqID := requestID(c)

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidArgument,
			Message: "Invalid request format",
		})
		return
	}

	result, err := h.service.Create(c.Request.Context(), &recipeService.Recipe{
		Name:        req.Name,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	})
	if err != nil {
		respondError(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRetrieve GET /recipes/:id
func (h *Handler) HandleRetrieve(c *gin.Context) {
	reqID := requestID(c)

	result, err := h.service.Retrieve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRate POST /recipes/:id/ratings
func (h *Handler) HandleRate(c *gin.Context) {
	reqID := requestID(c)

	var req RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidArgument,
			Message: "Invalid request format",
		})
		return
	}

	rating, err := h.service.Rate(c.Request.Context(), c.Param("id"), req.Stars)
	if err != nil {
		respondError(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// HandleFind GET /recipes?text=
func (h *Handler) HandleFind(c *gin.Context) {
	reqID := requestID(c)

	results, err := h.service.Find(c.Request.Context(), c.Query("text"))
	if err != nil {
		respondError(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// HandleBest GET /recipes/best/:days?count=
func (h *Handler) HandleBest(c *gin.Context) {
	reqID := requestID(c)

	// 解析失敗以 0 傳入，由服務層統一擋下非正整數
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil {
		days = 0
	}

	// count 省略時表示不截斷
	count := math.MaxInt
	if raw, exists := c.GetQuery("count"); exists {
		count, err = strconv.Atoi(raw)
		if err != nil {
			count = 0
		}
	}

	results, err := h.service.Best(c.Request.Context(), days, count)
	if err != nil {
		respondError(c, reqID, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
