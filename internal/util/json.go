package util

import (
	"encoding/json"
	"fmt"

	jsonpatchv5 "github.com/evanphx/json-patch/v5"
	jd "github.com/josephburnett/jd/lib"
)

// JsonEqual compares two values by their JSON encoding and renders a jd diff when they differ.
func JsonEqual(obj1, obj2 interface{}) (bool, string, error) {
	json1, err := json.Marshal(obj1)
	if err != nil {
		return false, "", err
	}

	json2, err := json.Marshal(obj2)
	if err != nil {
		return false, "", err
	}

	if string(json1) == string(json2) {
		return true, "", nil
	}

	return false, renderDiff(json1, json2), nil
}

// JsonSubsetEqual reports whether every top-level field present in expected carries the
// same value in actual. Fields only present in actual (ids, timestamps) are ignored.
func JsonSubsetEqual(expected, actual interface{}) (bool, string, error) {
	want, err := toObject(expected)
	if err != nil {
		return false, "", fmt.Errorf("failed to encode expected value: %w", err)
	}

	got, err := toObject(actual)
	if err != nil {
		return false, "", fmt.Errorf("failed to encode actual value: %w", err)
	}

	projected := make(map[string]json.RawMessage, len(want))
	for key := range want {
		if v, ok := got[key]; ok {
			projected[key] = v
		}
	}

	return JsonEqual(want, projected)
}

// JsonMerge applies obj2 over obj1 with JSON merge-patch semantics and decodes into result.
// Fields omitted from obj2 keep the value of obj1; explicit empty strings replace it.
func JsonMerge(obj1, obj2, result interface{}) error {
	json1, err := json.Marshal(obj1)
	if err != nil {
		return err
	}

	json2, err := json.Marshal(obj2)
	if err != nil {
		return err
	}

	merge, err := jsonpatchv5.MergePatch(json1, json2)
	if err != nil {
		return err
	}

	return json.Unmarshal(merge, result)
}

func toObject(v interface{}) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	return obj, nil
}

func renderDiff(json1, json2 []byte) string {
	j1, err1 := jd.ReadJsonString(string(json1))
	j2, err2 := jd.ReadJsonString(string(json2))

	if err1 != nil || err2 != nil {
		return ""
	}

	return j1.Diff(j2).Render()
}
