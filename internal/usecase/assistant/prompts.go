package assistant

const conditionsPrompt = `あなたはレストラン検索の条件を抽出するAIです。
次の文章から検索条件を抽出し、JSONのみで返してください。

文章: %q

{
  "area": "エリア",
  "cuisine": ["料理タイプ"],
  "priceCategory": "¥、¥¥、¥¥¥、¥¥¥¥のいずれか",
  "features": ["特徴"],
  "minRating": 0
}

該当しない項目は空文字列や空配列にしてください。`

const keywordsPrompt = `以下の文章から重要なキーワードを5〜10個抽出してください。
出力は必ず JSON 形式で以下の形にしてください。

{
  "keywords": ["キーワード1", "キーワード2"]
}

文章:
%s`

const recommendationPrompt = `あなたはレストラン選びを手伝うアシスタントです。
次の要望に対して、どのようなお店を選ぶとよいかを自然な日本語で200文字程度で提案してください。
提案文のみを返してください。

要望: %q`
