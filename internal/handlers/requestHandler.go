package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/careermate/PersonaAPI/internal/adapter"
	"github.com/careermate/PersonaAPI/internal/adapter/utils"
	"github.com/careermate/PersonaAPI/internal/api"
	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// carries a validated request to the job handler
type newJobData struct {
	id           string
	userID       string
	documentID   string
	competencies []commonModels.CompetencyDefinition
	profile      commonModels.ProfileFacts
	traceId      string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// EnqueueEvaluationHandler accepts a (user, document, competencies) triple,
// queues a pipeline job and returns 202 with a status URL. The document
// itself never travels in the request; the pipeline reads the converted JSON
// from the document root.
func EnqueueEvaluationHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.EvaluationRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the evaluation handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateEvaluationRequest(requestData) {
			logRH.Warn("Bad Evaluation Request: ", "error:", err, "user:", requestData.UserID)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.DocumentID, "Bad Request")
			return
		}

		newData := newJobData{
			id:           utils.GetNewUUID(),
			userID:       requestData.UserID,
			documentID:   requestData.DocumentID,
			competencies: requestData.Competencies,
			profile:      requestData.Profile,
			traceId:      request.Context().Value(config.TRACE_ID_KEY).(string),
		}
		CreateNewJob(newData)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newData.id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler returns the lifecycle of one job by its id.
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// GetEvaluationHandler returns the status record plus all persisted results
// and the overall assessment for one (user, document) pair.
func GetEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		userID := utils.GetChiURLParam(r, "userID")
		documentID := utils.GetChiURLParam(r, "documentID")
		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)

		record, found := GetEvaluation(userID, documentID, traceId)
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, documentID, "No evaluation for this document")
			return
		}

		results, err := handlerInstance.service.ResultStore.GetResults(r.Context(), userID, documentID)
		if err != nil {
			logRH.Error("Failed to load results", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, documentID, "Could not load results")
			return
		}
		overall, _ := handlerInstance.service.ResultStore.GetOverallAssessment(r.Context(), userID, documentID)

		writeJsonResponse(w, http.StatusOK, adapter.ToEvaluationStatusResponse(record, results, overall))
	}
}
