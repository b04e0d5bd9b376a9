package normalization

import (
  "encoding/json"
  "strings"
)

func ParseInputString(input string) string {
  normalized := strings.ToLower(strings.TrimSpace(input))
  return normalized
}

// ParseBool is the single read-side coercion for boolean-ish values coming
// out of storage or legacy payloads. Stored rows historically mixed
// booleans, numbers and strings for flags like is_correct/is_active.
func ParseBool(raw interface{}) bool {
  switch v := raw.(type) {
  case bool:
    return v
  case int:
    return v != 0
  case int64:
    return v != 0
  case float64:
    return v != 0
  case json.Number:
    return v.String() != "0" && v.String() != ""
  case string:
    switch strings.ToLower(strings.TrimSpace(v)) {
    case "1", "t", "true", "y", "yes", "on":
      return true
    default:
      return false
    }
  case nil:
    return false
  default:
    return false
  }
}

// NormalizeAnswer canonicalizes a free-form answer value for comparison.
// Scalars become a lowercased trimmed string, arrays become a set of
// normalized strings (order and duplicates ignored by the caller).
func NormalizeAnswer(raw interface{}) []string {
  switch v := raw.(type) {
  case nil:
    return nil
  case []interface{}:
    out := make([]string, 0, len(v))
    for _, item := range v {
      vals := NormalizeAnswer(item)
      out = append(out, vals...)
    }
    return out
  case []string:
    out := make([]string, 0, len(v))
    for _, item := range v {
      out = append(out, ParseInputString(item))
    }
    return out
  case string:
    return []string{ParseInputString(v)}
  case json.Number:
    return []string{v.String()}
  case float64:
    b, _ := json.Marshal(v)
    return []string{string(b)}
  case bool:
    if v {
      return []string{"true"}
    }
    return []string{"false"}
  default:
    b, err := json.Marshal(v)
    if err != nil {
      return nil
    }
    return []string{ParseInputString(string(b))}
  }
}

// AnswersEqual compares two normalized answers. Multi-value answers
// compare as sets, scalars as exact matches. Boolean correct answers
// accept legacy truthy encodings on the user side.
func AnswersEqual(userAnswer, correctAnswer interface{}) bool {
  if b, ok := correctAnswer.(bool); ok {
    if userAnswer == nil {
      return false
    }
    return ParseBool(userAnswer) == b
  }
  ua := NormalizeAnswer(userAnswer)
  ca := NormalizeAnswer(correctAnswer)
  if len(ua) == 0 || len(ca) == 0 {
    return false
  }
  uaSet := make(map[string]struct{}, len(ua))
  for _, v := range ua {
    uaSet[v] = struct{}{}
  }
  caSet := make(map[string]struct{}, len(ca))
  for _, v := range ca {
    caSet[v] = struct{}{}
  }
  if len(uaSet) != len(caSet) {
    return false
  }
  for v := range caSet {
    if _, ok := uaSet[v]; !ok {
      return false
    }
  }
  return true
}
