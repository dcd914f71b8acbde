package services

import "testcase-generator/models"

// FeatureBucket は1フィーチャー分のテストケース
type FeatureBucket struct {
	FeatureName     string            `json:"feature_name"`
	RequirementText string            `json:"requirement_text"`
	TestCases       []models.TestCase `json:"test_cases"`
}

// GroupByFeature はフィーチャー名ごとにまとめる。並びは最初に現れた順で、map はスライスの添字にだけ使う
func GroupByFeature(testCases []models.TestCase) []FeatureBucket {
	buckets := []FeatureBucket{}
	index := make(map[string]int)

	for _, tc := range testCases {
		i, ok := index[tc.FeatureName]
		if !ok {
			i = len(buckets)
			index[tc.FeatureName] = i
			buckets = append(buckets, FeatureBucket{
				FeatureName: tc.FeatureName,
				TestCases:   []models.TestCase{},
			})
		}
		buckets[i].RequirementText = tc.RequirementText
		buckets[i].TestCases = append(buckets[i].TestCases, tc)
	}
	return buckets
}
