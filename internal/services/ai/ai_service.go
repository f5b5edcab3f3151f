package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/its2darkai/Follow-up-crm/internal/models"

	"github.com/sirupsen/logrus"
)

// Service is a thin client for the external text-generation collaborator.
// Every call builds a prompt from the company knowledge passed in by the
// caller and degrades to fallback text on failure; AI outages never block CRM
// writes.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

func NewService() *Service {
	baseURL := os.Getenv("AI_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9090"
		logrus.Warnf("AI_SERVICE_URL not set, using default: %s", baseURL)
	}

	return &Service{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	JSON   bool   `json:"json,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// generate calls the collaborator's single text-generation endpoint.
func (s *Service) generate(prompt string, wantJSON bool) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, JSON: wantJSON})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.httpClient.Post(s.baseURL+"/v1/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("text generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("text generation returned status %d: %s", resp.StatusCode, string(data))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}

// systemContext renders the company knowledge into the prompt preamble. The
// master document, when present, overrides the structured fields as ground
// truth.
func systemContext(k *models.CompanyKnowledge) string {
	if len(k.MasterDocumentText) > 10 {
		return fmt.Sprintf(`You are a specialized Sales AI Assistant.

=== MASTER SOURCE MATERIAL (GROUND TRUTH) ===
%s
=============================================
Base ALL answers, drafts, and analysis STRICTLY on the Master Source Material above.
Do not invent features or pricing not present in the text.`, k.MasterDocumentText)
	}

	return fmt.Sprintf(`You are a specialized Sales AI Assistant for the product described below.

Product: %s
Description: %s
Unique Selling Points: %s
Pricing Structure: %s
Official Sales Pitch: %q
Objection Handling Rules: %q`,
		k.ProductName, k.Description, k.UniqueSellingPoints, k.Pricing, k.SalesPitch, k.ObjectionRules)
}

// RefineNotes rewrites raw agent notes into a professional summary. Returns
// the input untouched when it is too short or the collaborator is down.
func (s *Service) RefineNotes(k *models.CompanyKnowledge, text string) string {
	if len(text) < 3 {
		return text
	}

	prompt := fmt.Sprintf(`%s

Task: Rewrite the following raw notes taken by a sales agent into a clear, concise, and professional summary. Fix grammar and make it actionable.

Raw Notes: %q`, systemContext(k), text)

	refined, err := s.generate(prompt, false)
	if err != nil {
		logrus.Warnf("RefineNotes failed: %v", err)
		return text
	}
	return refined
}

// DailyBriefing writes a short coaching briefing from the dashboard counters.
func (s *Service) DailyBriefing(k *models.CompanyKnowledge, agentName string, dueToday, missed int) string {
	prompt := fmt.Sprintf(`%s

You are a sales coach for %s.

Data:
- Scheduled today: %d
- Overdue: %d

Task: Write a 2-3 sentence briefing. Summarize the load, then give one specific motivational tip derived from the source material. Tone: professional, motivating.`,
		systemContext(k), agentName, dueToday, missed)

	briefing, err := s.generate(prompt, false)
	if err != nil {
		logrus.Warnf("DailyBriefing failed: %v", err)
		return fmt.Sprintf("Welcome back, %s. You have %d follow-ups scheduled today.", agentName, dueToday)
	}
	return briefing
}

// MessageDraft drafts a short SMS or email for a client.
func (s *Service) MessageDraft(k *models.CompanyKnowledge, clientName string, status models.LeadStatus, lastNote, kind string) string {
	prompt := fmt.Sprintf(`%s

Task: Draft a short, professional %s to a client named %s.

Context:
- Current Status: %s
- Last Interaction Note: %q

Goal: Use our unique selling points to move them to the next stage.
Constraints:
- If SMS: under 160 characters, casual but professional.
- If Email: subject line included, concise body.
- No placeholders.`, systemContext(k), kind, clientName, status, lastNote)

	draft, err := s.generate(prompt, false)
	if err != nil {
		logrus.Warnf("MessageDraft failed: %v", err)
		return "Could not generate draft."
	}
	return draft
}

// Insights is the structured analysis of a client's interaction history.
type Insights struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
	NextStep  string `json:"next_step"`
}

// LeadInsights analyzes a client's interaction history chronologically.
func (s *Service) LeadInsights(k *models.CompanyKnowledge, logs []models.InteractionLog) *Insights {
	if len(logs) == 0 {
		return &Insights{Summary: "No history available for analysis.", Sentiment: "Unknown", NextStep: "Start conversation."}
	}

	sorted := make([]models.InteractionLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	var history strings.Builder
	for _, log := range sorted {
		fmt.Fprintf(&history, "Date: %s | Status: %s | Note: %s\n", log.FollowUpDate, log.LeadStatus, log.Description)
	}

	prompt := fmt.Sprintf(`%s

Task: Analyze this interaction history based on our product.
Return a JSON object with exactly these keys: "summary" (2 sentences), "sentiment" (one of Positive, Neutral, Negative, Cautious), "next_step" (one concrete action).

History:
%s`, systemContext(k), history.String())

	text, err := s.generate(prompt, true)
	if err != nil {
		logrus.Warnf("LeadInsights failed: %v", err)
		return &Insights{Summary: "AI unavailable.", Sentiment: "Unknown", NextStep: "Review the history manually."}
	}

	var insights Insights
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		logrus.Warnf("LeadInsights returned malformed JSON: %v", err)
		return &Insights{Summary: text, Sentiment: "Unknown", NextStep: "Review the history manually."}
	}
	return &insights
}

// WinProbability is an estimated chance of closing a lead.
type WinProbability struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// AnalyzeWinProbability scores a lead's history against the ideal customer
// profile in the source material.
func (s *Service) AnalyzeWinProbability(k *models.CompanyKnowledge, logs []models.InteractionLog) *WinProbability {
	var history strings.Builder
	for _, log := range logs {
		fmt.Fprintf(&history, "Status: %s, Note: %s\n", log.LeadStatus, log.Description)
	}

	prompt := fmt.Sprintf(`%s

Task: Analyze this sales history against our ideal customer profile.
Estimate a Win Probability Score (0-100).
Return JSON: { "score": number, "reason": "short 5-word reason" }

History:
%s`, systemContext(k), history.String())

	text, err := s.generate(prompt, true)
	if err != nil {
		logrus.Warnf("AnalyzeWinProbability failed: %v", err)
		return &WinProbability{Score: 50, Reason: "AI unavailable"}
	}

	var result WinProbability
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return &WinProbability{Score: 50, Reason: "Insufficient data"}
	}
	return &result
}

// ObjectionHandler suggests how to overcome a client objection.
func (s *Service) ObjectionHandler(k *models.CompanyKnowledge, objection, context string) string {
	prompt := fmt.Sprintf(`%s

The client just gave this objection: %q.
Context from history: %q

Task: Provide 3 bullet points on how to overcome this using facts from the source material.
Tone: empathetic but persuasive.`, systemContext(k), objection, context)

	answer, err := s.generate(prompt, false)
	if err != nil {
		logrus.Warnf("ObjectionHandler failed: %v", err)
		return "Listen to the client and validate their concerns."
	}
	return answer
}
